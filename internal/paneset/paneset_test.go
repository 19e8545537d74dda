package paneset

import "testing"

func TestNewTreeIsSingleLeafRoot(t *testing.T) {
	tr := New(0)
	info, err := tr.PaneType(tr.Root())
	if err != nil {
		t.Fatalf("PaneType: %v", err)
	}
	if info.Kind != Leaf {
		t.Fatalf("root kind = %v, want Leaf", info.Kind)
	}
	if tr.Current() != tr.Root() {
		t.Fatalf("Current() = %d, want root %d", tr.Current(), tr.Root())
	}
	if _, ok := tr.IndexUpFrom(tr.Root()); ok {
		t.Fatalf("root should have no parent")
	}
}

// TestPaneSplitAndClose walks a full split/close cycle: a lone root
// leaf splits into two leaves sharing the same buffer, then closing the
// second child collapses the split back to a single leaf and the active
// pane follows the survivor.
func TestPaneSplitAndClose(t *testing.T) {
	tr := New(BufferId(0))
	p0 := tr.Root()

	p2, err := tr.VSplit(p0)
	if err != nil {
		t.Fatalf("VSplit: %v", err)
	}

	rootInfo, err := tr.PaneType(tr.Root())
	if err != nil {
		t.Fatalf("PaneType(root): %v", err)
	}
	if rootInfo.Kind != Split {
		t.Fatalf("root kind = %v, want Split", rootInfo.Kind)
	}
	if rootInfo.Orientation != Vertical {
		t.Fatalf("root orientation = %v, want Vertical", rootInfo.Orientation)
	}

	p1, ok := tr.IndexDownFrom(tr.Root(), true)
	if !ok {
		t.Fatalf("IndexDownFrom(root, first) failed")
	}
	if got, ok := tr.IndexDownFrom(tr.Root(), false); !ok || got != p2 {
		t.Fatalf("IndexDownFrom(root, second) = (%d,%v), want (%d,true)", got, ok, p2)
	}

	if tr.Current() != p1 {
		t.Fatalf("active pane after split = %d, want first child %d", tr.Current(), p1)
	}

	buf1, err := tr.BufferIndex(p1)
	if err != nil || buf1 != 0 {
		t.Fatalf("BufferIndex(p1) = (%v,%v), want (0,nil)", buf1, err)
	}
	buf2, err := tr.BufferIndex(p2)
	if err != nil || buf2 != 0 {
		t.Fatalf("BufferIndex(p2) = (%v,%v), want (0,nil)", buf2, err)
	}

	removed, activeChanged, err := tr.CloseChild(tr.Root(), false)
	if err != nil {
		t.Fatalf("CloseChild: %v", err)
	}
	if len(removed) != 1 || removed[0] != p2 {
		t.Fatalf("CloseChild removed = %v, want [%d]", removed, p2)
	}
	if activeChanged {
		t.Fatalf("CloseChild should not change active pane: active pane p1 survives as root")
	}

	info, err := tr.PaneType(tr.Root())
	if err != nil {
		t.Fatalf("PaneType(root) after close: %v", err)
	}
	if info.Kind != Leaf {
		t.Fatalf("root kind after close = %v, want Leaf", info.Kind)
	}
	if tr.Current() != tr.Root() {
		t.Fatalf("active pane after close = %d, want root %d", tr.Current(), tr.Root())
	}
}

// TestCloseChildMovesActiveWhenClosedContainsActive checks that closing a
// child containing the active pane relocates activity to the survivor.
func TestCloseChildMovesActiveWhenClosedContainsActive(t *testing.T) {
	tr := New(BufferId(1))
	root := tr.Root()
	second, err := tr.HSplit(root)
	if err != nil {
		t.Fatalf("HSplit: %v", err)
	}
	if err := tr.SetActive(second); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	removed, activeChanged, err := tr.CloseChild(tr.Root(), false)
	if err != nil {
		t.Fatalf("CloseChild: %v", err)
	}
	if len(removed) != 1 || removed[0] != second {
		t.Fatalf("removed = %v, want [%d]", removed, second)
	}
	if !activeChanged {
		t.Fatalf("expected activeChanged=true: active pane was inside the closed child")
	}
	if tr.Current() != tr.Root() {
		t.Fatalf("active after close = %d, want root %d", tr.Current(), tr.Root())
	}
}

// TestNestedSplitPreservesDescendantIdentity ensures that closing a child
// of a nested split doesn't disturb ids inside the surviving subtree.
func TestNestedSplitPreservesDescendantIdentity(t *testing.T) {
	tr := New(BufferId(0))
	root := tr.Root()
	right, err := tr.VSplit(root)
	if err != nil {
		t.Fatalf("VSplit: %v", err)
	}
	left, ok := tr.IndexDownFrom(root, true)
	if !ok {
		t.Fatalf("IndexDownFrom failed")
	}

	// Split the left child again: left becomes a split with two leaves.
	leftSecond, err := tr.HSplit(left)
	if err != nil {
		t.Fatalf("HSplit(left): %v", err)
	}
	leftFirst, ok := tr.IndexDownFrom(left, true)
	if !ok {
		t.Fatalf("IndexDownFrom(left, first) failed")
	}

	if err := tr.SetBuffer(leftFirst, BufferId(42)); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}

	// Close the root's second child (the unrelated 'right' leaf); the
	// left subtree, including leftFirst/leftSecond, must be untouched.
	removed, _, err := tr.CloseChild(root, false)
	if err != nil {
		t.Fatalf("CloseChild(root): %v", err)
	}
	if len(removed) != 1 || removed[0] != right {
		t.Fatalf("removed = %v, want [%d]", removed, right)
	}

	buf, err := tr.BufferIndex(leftFirst)
	if err != nil || buf != 42 {
		t.Fatalf("BufferIndex(leftFirst) after unrelated close = (%v,%v), want (42,nil)", buf, err)
	}
	if _, err := tr.BufferIndex(leftSecond); err != nil {
		t.Fatalf("leftSecond should still exist: %v", err)
	}
	// root is now the old 'left' split node directly.
	info, err := tr.PaneType(tr.Root())
	if err != nil {
		t.Fatalf("PaneType(root): %v", err)
	}
	if info.Kind != Split {
		t.Fatalf("root kind = %v, want Split", info.Kind)
	}
}

func TestSetSplitPercentClampsAndFlips(t *testing.T) {
	tr := New(BufferId(0))
	root := tr.Root()
	if _, err := tr.VSplit(root); err != nil {
		t.Fatalf("VSplit: %v", err)
	}

	if err := tr.SetSplitPercent(root, 1.5, nil); err != nil {
		t.Fatalf("SetSplitPercent: %v", err)
	}
	info, _ := tr.PaneType(root)
	if info.Split.FirstFraction != 1.0 {
		t.Fatalf("FirstFraction = %v, want clamped to 1.0", info.Split.FirstFraction)
	}

	onFirst := false
	if err := tr.SetSplitPercent(root, 0.3, &onFirst); err != nil {
		t.Fatalf("SetSplitPercent: %v", err)
	}
	info, _ = tr.PaneType(root)
	if info.Split.FirstFraction != 0.7 {
		t.Fatalf("FirstFraction = %v, want 0.7 (1 - 0.3 on second child)", info.Split.FirstFraction)
	}
}

// TestFrameTilingPercent verifies that a split's two children's frames
// partition its own frame exactly, with no gap or overlap.
func TestFrameTilingPercent(t *testing.T) {
	tr := New(BufferId(0))
	root := tr.Root()
	second, err := tr.VSplit(root)
	if err != nil {
		t.Fatalf("VSplit: %v", err)
	}
	if err := tr.SetSplitPercent(root, 0.25, nil); err != nil {
		t.Fatalf("SetSplitPercent: %v", err)
	}
	first, _ := tr.IndexDownFrom(root, true)

	rootFrame := Frame{X: 0, Y: 0, Rows: 40, Cols: 100}
	firstFrame, err := tr.Frame(first, rootFrame)
	if err != nil {
		t.Fatalf("Frame(first): %v", err)
	}
	secondFrame, err := tr.Frame(second, rootFrame)
	if err != nil {
		t.Fatalf("Frame(second): %v", err)
	}

	if firstFrame.Cols+secondFrame.Cols != rootFrame.Cols {
		t.Fatalf("Cols %d + %d != root %d", firstFrame.Cols, secondFrame.Cols, rootFrame.Cols)
	}
	if firstFrame.Rows != rootFrame.Rows || secondFrame.Rows != rootFrame.Rows {
		t.Fatalf("vertical split should share full row span: first=%d second=%d root=%d",
			firstFrame.Rows, secondFrame.Rows, rootFrame.Rows)
	}
	if firstFrame.X != rootFrame.X {
		t.Fatalf("first frame X = %d, want %d", firstFrame.X, rootFrame.X)
	}
	if secondFrame.X != firstFrame.X+firstFrame.Cols {
		t.Fatalf("second frame X = %d, want %d", secondFrame.X, firstFrame.X+firstFrame.Cols)
	}
	if got, want := int(firstFrame.Cols), 25; got != want {
		t.Fatalf("25%% of 100 cols = %d, want %d", got, want)
	}
}

func TestFrameTilingFixed(t *testing.T) {
	tr := New(BufferId(0))
	root := tr.Root()
	second, err := tr.HSplit(root)
	if err != nil {
		t.Fatalf("HSplit: %v", err)
	}
	if err := tr.SetSplitFixed(root, 5, true); err != nil {
		t.Fatalf("SetSplitFixed: %v", err)
	}
	first, _ := tr.IndexDownFrom(root, true)

	rootFrame := Frame{X: 0, Y: 0, Rows: 30, Cols: 80}
	firstFrame, err := tr.Frame(first, rootFrame)
	if err != nil {
		t.Fatalf("Frame(first): %v", err)
	}
	secondFrame, err := tr.Frame(second, rootFrame)
	if err != nil {
		t.Fatalf("Frame(second): %v", err)
	}
	if firstFrame.Rows != 5 {
		t.Fatalf("first_fixed(5) first.Rows = %d, want 5", firstFrame.Rows)
	}
	if firstFrame.Rows+secondFrame.Rows != rootFrame.Rows {
		t.Fatalf("Rows %d + %d != root %d", firstFrame.Rows, secondFrame.Rows, rootFrame.Rows)
	}
	if secondFrame.Y != firstFrame.Y+firstFrame.Rows {
		t.Fatalf("second frame Y = %d, want %d", secondFrame.Y, firstFrame.Y+firstFrame.Rows)
	}
}

func TestTopLineAndWrapOnLeaf(t *testing.T) {
	tr := New(BufferId(0))
	root := tr.Root()
	if err := tr.SetTopLine(root, 7); err != nil {
		t.Fatalf("SetTopLine: %v", err)
	}
	if got, err := tr.TopLine(root); err != nil || got != 7 {
		t.Fatalf("TopLine() = (%v,%v), want (7,nil)", got, err)
	}
	if err := tr.SetWrap(root, true); err != nil {
		t.Fatalf("SetWrap: %v", err)
	}
	if got, err := tr.Wrap(root); err != nil || !got {
		t.Fatalf("Wrap() = (%v,%v), want (true,nil)", got, err)
	}
}

func TestPaneIsFirstAtRootIsFalseOk(t *testing.T) {
	tr := New(BufferId(0))
	if _, ok := tr.PaneIsFirst(tr.Root()); ok {
		t.Fatalf("PaneIsFirst(root) ok = true, want false (root has no parent)")
	}
}

func TestInvalidPaneIdReturnsError(t *testing.T) {
	tr := New(BufferId(0))
	if _, err := tr.PaneType(Id(999)); err == nil {
		t.Fatalf("expected error for unknown pane id")
	}
}
