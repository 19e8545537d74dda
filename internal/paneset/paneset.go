// Package paneset implements the recursive binary pane tree: leaves
// bound to a buffer, splits dividing a rectangle between two children,
// active pane tracking, and frame computation. Nodes live in an
// id-indexed arena; parent and child links are ids, never owning
// references.
package paneset

import "badred/internal/editorerr"

// Id identifies a pane. Ids are allocated monotonically by Tree.
type Id uint32

// Orientation is the split axis.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// SplitKind is the closed set of ways a split divides its rectangle.
type SplitKind string

const (
	SplitPercent     SplitKind = "percent"
	SplitFirstFixed  SplitKind = "first_fixed"
	SplitSecondFixed SplitKind = "second_fixed"
)

// SplitParams carries the parameter for whichever SplitKind is active.
// Percent uses FirstFraction (first child's share, in [0.0, 1.0]);
// FirstFixed/SecondFixed use FixedRows (a row/column count).
type SplitParams struct {
	Kind          SplitKind
	FirstFraction float64
	FixedRows     int
}

// NodeKind distinguishes a leaf from a split.
type NodeKind string

const (
	Leaf  NodeKind = "leaf"
	Split NodeKind = "split"
)

// BufferId is the buffer identity a leaf pane is bound to. It mirrors
// buffer.Id without importing package buffer, keeping paneset free of a
// dependency on the buffer engine. Editor state is the only layer that
// needs both.
type BufferId uint32

type node struct {
	kind NodeKind

	// Leaf fields.
	bufferID BufferId
	topLine  uint16
	wrap     bool

	// Split fields.
	orientation Orientation
	first       Id
	second      Id
	split       SplitParams
}

// Frame is a rectangle in terminal cell coordinates.
type Frame struct {
	X, Y       uint16
	Rows, Cols uint16
}

// Tree owns the pane arena: nodes indexed by id, the root, and the
// active pane. Parent links are derived by search rather than stored,
// so split and close never have to keep a back-pointer consistent.
type Tree struct {
	nodes  map[Id]*node
	root   Id
	active Id
	nextID Id
}

// New creates a tree with a single leaf root bound to bufferID.
func New(bufferID BufferId) *Tree {
	t := &Tree{nodes: map[Id]*node{}}
	root := t.allocID()
	t.nodes[root] = &node{kind: Leaf, bufferID: bufferID}
	t.root = root
	t.active = root
	return t
}

func (t *Tree) allocID() Id {
	id := t.nextID
	t.nextID++
	return id
}

func (t *Tree) get(id Id) (*node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, editorerr.New(editorerr.InvalidPane, "pane not found: %d", id)
	}
	return n, nil
}

// Root returns the root pane id.
func (t *Tree) Root() Id { return t.root }

// Current returns the active pane id.
func (t *Tree) Current() Id { return t.active }

// SetActive sets the active pane, failing if id is unknown.
func (t *Tree) SetActive(id Id) error {
	if _, err := t.get(id); err != nil {
		return err
	}
	t.active = id
	return nil
}

// parentOf returns the parent of id and which child slot id occupies, or
// ok=false if id is the root.
func (t *Tree) parentOf(id Id) (parent Id, first bool, ok bool) {
	if id == t.root {
		return 0, false, false
	}
	for candidateID, n := range t.nodes {
		if n.kind != Split {
			continue
		}
		if n.first == id {
			return candidateID, true, true
		}
		if n.second == id {
			return candidateID, false, true
		}
	}
	return 0, false, false
}

// PaneIsFirst reports whether id is its parent's first child. Returns
// ok=false at the root, which has no parent.
func (t *Tree) PaneIsFirst(id Id) (isFirst bool, ok bool) {
	if _, err := t.get(id); err != nil {
		return false, false
	}
	_, first, hasParent := t.parentOf(id)
	if !hasParent {
		return false, false
	}
	return first, true
}

// IndexUpFrom returns id's parent, or ok=false at the root.
func (t *Tree) IndexUpFrom(id Id) (Id, bool) {
	if _, err := t.get(id); err != nil {
		return 0, false
	}
	parent, _, ok := t.parentOf(id)
	return parent, ok
}

// IndexDownFrom returns one of id's children (first if toFirst, else
// second). ok=false when id is a leaf (no children to descend into).
func (t *Tree) IndexDownFrom(id Id, toFirst bool) (Id, bool) {
	n, err := t.get(id)
	if err != nil || n.kind != Split {
		return 0, false
	}
	if toFirst {
		return n.first, true
	}
	return n.second, true
}

// PaneTypeInfo is the tagged description returned by PaneType, the
// in-process form of the pane_node_type wire enum.
type PaneTypeInfo struct {
	Kind        NodeKind
	Orientation Orientation // only meaningful when Kind == Split
	Split       SplitParams // only meaningful when Kind == Split
}

// PaneType reports id's node kind and, for a split, its orientation and
// split parameters.
func (t *Tree) PaneType(id Id) (PaneTypeInfo, error) {
	n, err := t.get(id)
	if err != nil {
		return PaneTypeInfo{}, err
	}
	if n.kind == Leaf {
		return PaneTypeInfo{Kind: Leaf}, nil
	}
	return PaneTypeInfo{Kind: Split, Orientation: n.orientation, Split: n.split}, nil
}
