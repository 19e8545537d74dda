package paneset

import "badred/internal/editorerr"

// SetBuffer rebinds a leaf pane to a different buffer. No-op on a split.
func (t *Tree) SetBuffer(id Id, bufferID BufferId) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.kind != Leaf {
		return nil
	}
	n.bufferID = bufferID
	return nil
}

// BufferIndex returns the buffer a leaf pane is bound to.
func (t *Tree) BufferIndex(id Id) (BufferId, error) {
	n, err := t.get(id)
	if err != nil {
		return 0, err
	}
	if n.kind != Leaf {
		return 0, editorerr.New(editorerr.InvalidPane, "buffer_index: pane %d is not a leaf", id)
	}
	return n.bufferID, nil
}

// TopLine returns the first visible line of a leaf pane's viewport.
func (t *Tree) TopLine(id Id) (int, error) {
	n, err := t.get(id)
	if err != nil {
		return 0, err
	}
	if n.kind != Leaf {
		return 0, editorerr.New(editorerr.InvalidPane, "top_line: pane %d is not a leaf", id)
	}
	return int(n.topLine), nil
}

// SetTopLine sets the first visible line of a leaf pane's viewport. No-op
// on a split.
func (t *Tree) SetTopLine(id Id, line int) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.kind != Leaf {
		return nil
	}
	if line < 0 {
		line = 0
	}
	n.topLine = uint16(line)
	return nil
}

// Wrap reports whether a leaf pane soft-wraps long lines.
func (t *Tree) Wrap(id Id) (bool, error) {
	n, err := t.get(id)
	if err != nil {
		return false, err
	}
	if n.kind != Leaf {
		return false, editorerr.New(editorerr.InvalidPane, "wrap: pane %d is not a leaf", id)
	}
	return n.wrap, nil
}

// SetWrap sets a leaf pane's soft-wrap flag. No-op on a split.
func (t *Tree) SetWrap(id Id, wrap bool) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.kind != Leaf {
		return nil
	}
	n.wrap = wrap
	return nil
}

// Frame computes id's rectangle within rootFrame, recursing down from the
// root and dividing each split's rectangle between its two children
// according to its SplitParams:
//
//	Percent(p):      first child gets round(dim * p), second gets the rest
//	FirstFixed(n):   first child gets min(n, dim), second gets the rest
//	SecondFixed(n):  second child gets min(n, dim), first gets the rest
//
// The split's orientation decides which dimension (rows for Horizontal,
// cols for Vertical) is divided; the other dimension and the origin are
// shared by both children.
func (t *Tree) Frame(id Id, rootFrame Frame) (Frame, error) {
	if _, err := t.get(id); err != nil {
		return Frame{}, err
	}
	return t.frameWithin(t.root, rootFrame, id)
}

func (t *Tree) frameWithin(nodeID Id, frame Frame, target Id) (Frame, error) {
	n, err := t.get(nodeID)
	if err != nil {
		return Frame{}, err
	}
	if nodeID == target {
		return frame, nil
	}
	if n.kind != Split {
		return Frame{}, editorerr.New(editorerr.InvalidPane, "frame: pane %d not found under root", target)
	}

	firstFrame, secondFrame := divide(frame, n.orientation, n.split)

	if found, err := t.frameWithin(n.first, firstFrame, target); err == nil {
		return found, nil
	}
	return t.frameWithin(n.second, secondFrame, target)
}

func divide(frame Frame, orientation Orientation, split SplitParams) (first, second Frame) {
	if orientation == Horizontal {
		dim := int(frame.Rows)
		firstDim := splitDim(dim, split, true)
		first = Frame{X: frame.X, Y: frame.Y, Cols: frame.Cols, Rows: uint16(firstDim)}
		second = Frame{X: frame.X, Y: frame.Y + uint16(firstDim), Cols: frame.Cols, Rows: uint16(dim - firstDim)}
		return first, second
	}
	dim := int(frame.Cols)
	firstDim := splitDim(dim, split, true)
	first = Frame{X: frame.X, Y: frame.Y, Rows: frame.Rows, Cols: uint16(firstDim)}
	second = Frame{X: frame.X + uint16(firstDim), Y: frame.Y, Rows: frame.Rows, Cols: uint16(dim - firstDim)}
	return first, second
}

// splitDim returns the first child's share of dim along the split axis.
func splitDim(dim int, split SplitParams, _ bool) int {
	switch split.Kind {
	case SplitFirstFixed:
		n := split.FixedRows
		if n > dim {
			n = dim
		}
		if n < 0 {
			n = 0
		}
		return n
	case SplitSecondFixed:
		n := split.FixedRows
		if n > dim {
			n = dim
		}
		if n < 0 {
			n = 0
		}
		return dim - n
	default: // SplitPercent
		first := int(float64(dim)*split.FirstFraction + 0.5)
		if first < 0 {
			first = 0
		}
		if first > dim {
			first = dim
		}
		return first
	}
}
