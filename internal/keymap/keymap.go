// Package keymap implements the scripted keymap tree: parent-linked
// nodes looked up by normalized key-event string, with prototype-style
// inheritance (a lookup miss walks to the parent). Event strings carry
// an optional "C+" control prefix and either a single printable rune or
// one of a closed set of named tokens ("Enter", "Backspace", ...).
package keymap

import (
	"strings"

	"badred/internal/editorerr"
)

// namedKeys lists key tokens with no further internal structure: either a
// single printable key or a name the scripting side matches verbatim.
var namedKeys = map[string]bool{
	"Enter": true, "Backspace": true, "Delete": true, "Left": true,
	"Right": true, "Up": true, "Down": true, "Tab": true, "Esc": true,
	"Home": true, "End": true, "PageUp": true, "PageDown": true,
	"Space": true,
}

// KeyEvent is a normalized key event: an optional control modifier and a
// key token (either a single printable rune or one of namedKeys).
type KeyEvent struct {
	Control bool
	Token   string
}

// String renders a KeyEvent back to its wire form, e.g. "C+w" or "Enter".
func (k KeyEvent) String() string {
	if k.Control {
		return "C+" + k.Token
	}
	return k.Token
}

// ParseKeyEvent normalizes a raw key-event string (`"a"`, `"Enter"`,
// `"C+e"`, `"C+Delete"`) into a KeyEvent. Unknown multi-char
// tokens without a known name and without a "C+" prefix are rejected:
// the core passes key strings through unchanged, but the keymap layer
// needs a known shape to index its node maps.
func ParseKeyEvent(raw string) (KeyEvent, error) {
	if raw == "" {
		return KeyEvent{}, editorerr.New(editorerr.ScriptFault, "parse_key_event: empty key string")
	}
	if rest, ok := strings.CutPrefix(raw, "C+"); ok {
		if rest == "" {
			return KeyEvent{}, editorerr.New(editorerr.ScriptFault, "parse_key_event: empty token after C+")
		}
		return KeyEvent{Control: true, Token: rest}, nil
	}
	if namedKeys[raw] {
		return KeyEvent{Token: raw}, nil
	}
	if len([]rune(raw)) == 1 {
		return KeyEvent{Token: raw}, nil
	}
	return KeyEvent{}, editorerr.New(editorerr.ScriptFault, "parse_key_event: unrecognized key token %q", raw)
}

// HandlerKind distinguishes what a keymap node maps an event to.
type HandlerKind int

const (
	None HandlerKind = iota
	Fn
	Submap
)

// Binding is one node's mapping for a single event string.
type Binding struct {
	Kind       HandlerKind
	CallbackID uint64 // valid when Kind == Fn
	SubmapID   NodeId // valid when Kind == Submap
}

// NodeId identifies a keymap node.
type NodeId uint32

type node struct {
	parent   NodeId
	hasParent bool
	bindings map[string]Binding
	fallback *Binding // the node's distinguished default-handler Fn, if any
}

// Tree owns the keymap node arena.
type Tree struct {
	nodes  map[NodeId]*node
	nextID NodeId
	root   NodeId
}

// New creates a tree with a single root node with no parent.
func New() *Tree {
	t := &Tree{nodes: map[NodeId]*node{}}
	root := t.allocID()
	t.nodes[root] = &node{bindings: map[string]Binding{}}
	t.root = root
	return t
}

func (t *Tree) allocID() NodeId {
	id := t.nextID
	t.nextID++
	return id
}

// Root returns the root node's id.
func (t *Tree) Root() NodeId { return t.root }

// NewChild creates a node whose parent is parent, for nested submaps.
func (t *Tree) NewChild(parent NodeId) (NodeId, error) {
	if _, ok := t.nodes[parent]; !ok {
		return 0, editorerr.New(editorerr.ScriptFault, "keymap: unknown node %d", parent)
	}
	id := t.allocID()
	t.nodes[id] = &node{parent: parent, hasParent: true, bindings: map[string]Binding{}}
	return id, nil
}

// Bind registers event on node to bind, overwriting any previous binding
// for the same event string.
func (t *Tree) Bind(id NodeId, event KeyEvent, bind Binding) error {
	n, ok := t.nodes[id]
	if !ok {
		return editorerr.New(editorerr.ScriptFault, "keymap: unknown node %d", id)
	}
	n.bindings[event.String()] = bind
	return nil
}

// SetDefault sets node's distinguished default handler, used when
// Lookup finds no matching binding anywhere up the parent chain.
func (t *Tree) SetDefault(id NodeId, callbackID uint64) error {
	n, ok := t.nodes[id]
	if !ok {
		return editorerr.New(editorerr.ScriptFault, "keymap: unknown node %d", id)
	}
	n.fallback = &Binding{Kind: Fn, CallbackID: callbackID}
	return nil
}

// Lookup resolves event starting at id, walking to parents on a miss
// (prototype inheritance). Returns the nearest node's own default handler
// if no binding matches anywhere in the chain, or ok=false if neither a
// binding nor a default exists anywhere up the chain.
func (t *Tree) Lookup(id NodeId, event KeyEvent) (Binding, bool) {
	key := event.String()
	cur := id
	var nearestDefault *Binding
	for {
		n, ok := t.nodes[cur]
		if !ok {
			break
		}
		if b, ok := n.bindings[key]; ok {
			return b, true
		}
		if nearestDefault == nil && n.fallback != nil {
			nearestDefault = n.fallback
		}
		if !n.hasParent {
			break
		}
		cur = n.parent
	}
	if nearestDefault != nil {
		return *nearestDefault, true
	}
	return Binding{}, false
}
