package paneset

import "badred/internal/editorerr"

// nearestFirstLeafBuffer walks first-children down from id until it finds
// a leaf, returning that leaf's bound buffer.
//
// When splitting a non-leaf pane, the intended buffer for the new
// sibling is the nearest first-leaf descendant's buffer; this is exactly
// that walk. It is exercised constantly for the leaf case (where the
// walk is a single step); for a split target the choice of which
// descendant's buffer wins is a judgment call, settled here as
// first-children all the way down.
func (t *Tree) nearestFirstLeafBuffer(id Id) (BufferId, error) {
	n, err := t.get(id)
	if err != nil {
		return 0, err
	}
	for n.kind == Split {
		next, err := t.get(n.first)
		if err != nil {
			return 0, err
		}
		n = next
	}
	return n.bufferID, nil
}

func (t *Tree) split(id Id, orientation Orientation) (Id, error) {
	target, err := t.get(id)
	if err != nil {
		return 0, err
	}
	bufferID, err := t.nearestFirstLeafBuffer(id)
	if err != nil {
		return 0, err
	}

	parent, isFirst, hasParent := t.parentOf(id)

	firstID := t.allocID()
	t.nodes[firstID] = &node{
		kind:     target.kind,
		bufferID: target.bufferID,
		topLine:  target.topLine,
		wrap:     target.wrap,

		orientation: target.orientation,
		first:       target.first,
		second:      target.second,
		split:       target.split,
	}

	secondID := t.allocID()
	t.nodes[secondID] = &node{kind: Leaf, bufferID: bufferID}

	splitNode := &node{
		kind:        Split,
		orientation: orientation,
		first:       firstID,
		second:      secondID,
		split:       SplitParams{Kind: SplitPercent, FirstFraction: 0.5},
	}
	t.nodes[id] = splitNode

	if hasParent {
		p := t.nodes[parent]
		if isFirst {
			p.first = id
		} else {
			p.second = id
		}
	}

	// Active pane, if contained in the old leaf, follows the first child.
	if t.active == id {
		t.active = firstID
	}
	return secondID, nil
}

// VSplit replaces id with a vertical split whose first child clones id
// and whose second child is a new leaf sharing id's buffer (or, for a
// non-leaf id, the nearest first-leaf descendant's buffer; see the open
// question on nearestFirstLeafBuffer). Returns the new second child's id.
func (t *Tree) VSplit(id Id) (Id, error) { return t.split(id, Vertical) }

// HSplit is VSplit with Horizontal orientation.
func (t *Tree) HSplit(id Id) (Id, error) { return t.split(id, Horizontal) }

// CloseChild removes one child of split id and collapses the split: the
// surviving child's content moves up into id's slot, so the id a script
// held before splitting denotes the surviving pane again afterwards.
// Returns the ids of every pane removed from the tree (the closed
// child's subtree), so the caller can invalidate them and fire
// pane_closed hooks bound to any of them, and whether the active pane
// changed as a result.
func (t *Tree) CloseChild(id Id, firstChild bool) (removed []Id, activeChanged bool, err error) {
	n, err := t.get(id)
	if err != nil {
		return nil, false, err
	}
	if n.kind != Split {
		return nil, false, editorerr.New(editorerr.InvalidPane, "close_child: pane %d is not a split", id)
	}

	var closedID, survivorID Id
	if firstChild {
		closedID, survivorID = n.first, n.second
	} else {
		closedID, survivorID = n.second, n.first
	}

	removedFromClosed := t.collectSubtreeIds(closedID)
	wasActiveInClosed := t.containsActive(removedFromClosed)

	survivor := t.nodes[survivorID]
	parent, isFirst, hasParent := t.parentOf(id)

	// The surviving child takes id's position: reparent by copying the
	// survivor's node content into id's slot and dropping the standalone
	// survivor id, so every other id in the tree (including ids inside the
	// survivor's own subtree) is preserved untouched.
	t.nodes[id] = survivor
	for pid, p := range t.nodes {
		if p.kind != Split || pid == id {
			continue
		}
		if p.first == survivorID {
			p.first = id
		}
		if p.second == survivorID {
			p.second = id
		}
	}
	delete(t.nodes, survivorID)

	for _, rid := range removedFromClosed {
		delete(t.nodes, rid)
	}

	if hasParent {
		p := t.nodes[parent]
		if isFirst {
			p.first = id
		} else {
			p.second = id
		}
	}

	if wasActiveInClosed {
		t.active = id
		activeChanged = true
	}
	if t.active == survivorID {
		// The survivor's standalone id was folded into id's slot above;
		// follow it so the active pane keeps pointing at a live node.
		t.active = id
	}
	return removedFromClosed, activeChanged, nil
}

func (t *Tree) containsActive(ids []Id) bool {
	for _, id := range ids {
		if id == t.active {
			return true
		}
	}
	return false
}

func (t *Tree) collectSubtreeIds(id Id) []Id {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	out := []Id{id}
	if n.kind == Split {
		out = append(out, t.collectSubtreeIds(n.first)...)
		out = append(out, t.collectSubtreeIds(n.second)...)
	}
	return out
}

// SetSplitPercent updates a split's percent parameter. onFirstChild, when
// non-nil, reinterprets the given percent as the named child's share
// (false flips it to 1-percent for FirstFraction bookkeeping); a leaf id
// is a no-op rather than an error.
func (t *Tree) SetSplitPercent(id Id, percent float64, onFirstChild *bool) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.kind != Split {
		return nil
	}
	if onFirstChild != nil && !*onFirstChild {
		percent = 1 - percent
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	n.split = SplitParams{Kind: SplitPercent, FirstFraction: percent}
	return nil
}

// SetSplitFixed updates a split to a fixed-size child. It records the
// parameter only; how an already-fixed split renegotiates space with
// its sibling on a later terminal resize is deliberately left
// undefined. No-op on a leaf.
func (t *Tree) SetSplitFixed(id Id, size int, onFirstChild bool) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.kind != Split {
		return nil
	}
	kind := SplitSecondFixed
	if onFirstChild {
		kind = SplitFirstFixed
	}
	n.split = SplitParams{Kind: kind, FixedRows: size}
	return nil
}
