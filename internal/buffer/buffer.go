// Package buffer implements the editable text buffer: a storage backend
// wrapped with UTF-8 codepoint boundary discipline, a cursor with a
// sticky column, a line index, and file linkage.
package buffer

import (
	"badred/internal/editorerr"
	"badred/internal/storage"
)

// Id identifies a buffer. Zero is a valid id; editor state allocates
// ids monotonically starting from zero.
type Id uint32

// Buffer is the unit of text editing: a storage backend plus cursor,
// sticky column, line index (delegated to the backend), file linkage, and
// an opaque style stack.
//
// Invariants:
//   - cursorByte <= Length()
//   - cursorByte lies on a UTF-8 codepoint boundary, or equals Length()
//   - replacing the backend (SetType) preserves content byte-for-byte
//   - line 0 always exists
type Buffer struct {
	id      Id
	variant storage.Variant
	backend storage.Backend

	cursorByte   int
	stickyColumn *int // nil when not set

	linked   bool
	fileID   FileId
	filePath string

	styles []StyleRule
}

// New creates an empty buffer of the given storage variant.
func New(id Id, variant storage.Variant) *Buffer {
	return &Buffer{
		id:      id,
		variant: variant,
		backend: storage.New(variant),
	}
}

// Id returns the buffer's identity.
func (b *Buffer) Id() Id { return b.id }

func (b *Buffer) content() []byte { return b.backend.Bytes() }

func (b *Buffer) setContent(content []byte) {
	b.backend = storage.NewFromContent(b.variant, content)
	b.cursorByte = clampToBoundary(b.content(), b.cursorByte)
	b.stickyColumn = nil
}

func clampToBoundary(content []byte, idx int) int {
	if idx < 0 {
		return 0
	}
	if idx > len(content) {
		return len(content)
	}
	return nearestBoundaryAtOrBefore(content, idx)
}

// Insert inserts content at the cursor, advances the cursor past it, and
// clears the sticky column.
func (b *Buffer) Insert(content string) {
	data := []byte(content)
	b.backend.Insert(b.cursorByte, data)
	b.cursorByte += len(data)
	b.stickyColumn = nil
}

// Delete removes the next charCount UTF-8 codepoints starting at the
// cursor, stopping at the buffer's end, and returns the removed text.
func (b *Buffer) Delete(charCount int) string {
	if charCount <= 0 {
		return ""
	}
	content := b.content()
	end := moveByChars(content, b.cursorByte, charCount)
	removed := b.backend.Delete(b.cursorByte, end-b.cursorByte)
	b.stickyColumn = nil
	return string(removed)
}

// Content returns the full buffer content.
func (b *Buffer) Content() string { return string(b.content()) }

// ContentAt returns charCount codepoints of content starting at byteIndex.
func (b *Buffer) ContentAt(byteIndex int, charCount int) string {
	content := b.content()
	if byteIndex < 0 || byteIndex > len(content) {
		return ""
	}
	end := moveByChars(content, byteIndex, charCount)
	return string(content[byteIndex:end])
}

// LineContent returns the content of line (without its trailing newline).
func (b *Buffer) LineContent(line int) string {
	content := b.content()
	start := b.backend.LineStart(line)
	end := b.backend.LineEnd(line)
	if start < 0 || start > len(content) || end < start {
		return ""
	}
	return string(content[start:end])
}

// CursorByteMoved advances/retreats |charDelta| codepoints from `from`,
// clamped to [0, Length()]. This is the sanctioned way to step across
// multibyte characters.
func (b *Buffer) CursorByteMoved(from int, charDelta int) int {
	return moveByChars(b.content(), from, charDelta)
}

// IndexMoved is CursorByteMoved from an arbitrary starting index.
func (b *Buffer) IndexMoved(index int, charDelta int) int {
	return moveByChars(b.content(), index, charDelta)
}

// MoveCharsSkippingNewlines is CursorByteMoved with the skip-newline
// policy applied: when the result lands on a '\n' that is not the only
// character on its line, the cursor advances one further codepoint in
// the direction of motion. Purely empty lines are preserved. Higher-level
// motions (word/line movement) that need this policy call here instead of
// CursorByteMoved directly; the plain char-move RedCalls never skip.
func (b *Buffer) MoveCharsSkippingNewlines(from int, charDelta int, skipNewlines bool) int {
	content := b.content()
	pos := moveByChars(content, from, charDelta)
	if !skipNewlines || charDelta == 0 || pos >= len(content) || content[pos] != '\n' {
		return pos
	}
	line := b.backend.LineContaining(pos)
	lineStart := b.backend.LineStart(line)
	if pos == lineStart {
		// The newline is the only character on its line: an empty line,
		// preserved rather than skipped.
		return pos
	}
	direction := 1
	if charDelta < 0 {
		direction = -1
	}
	return moveByChars(content, pos, direction)
}

// SetCursor places the cursor at byteIndex, which must be on a codepoint
// boundary; callers never synthesize raw offsets. If keepCol is false
// the sticky column is cleared; otherwise it is preserved.
func (b *Buffer) SetCursor(byteIndex int, keepCol bool) error {
	content := b.content()
	if !isBoundary(content, byteIndex) {
		return editorerr.New(editorerr.BoundaryViolation, "set_cursor: byte %d is not a codepoint boundary", byteIndex)
	}
	if byteIndex < 0 || byteIndex > len(content) {
		return editorerr.New(editorerr.OutOfBounds, "set_cursor: byte %d out of bounds [0,%d]", byteIndex, len(content))
	}
	b.cursorByte = byteIndex
	if !keepCol {
		b.stickyColumn = nil
	}
	return nil
}

// SetCursorLine moves the cursor to `line`, at the byte offset closest to
// the sticky column (if set) or the current column, snapped to the
// nearest preceding codepoint boundary. The sticky column itself is
// left untouched.
func (b *Buffer) SetCursorLine(line int) error {
	content := b.content()
	if line < 0 || line >= b.backend.LineCount() {
		return editorerr.New(editorerr.OutOfBounds, "set_cursor_line: line %d out of range [0,%d)", line, b.backend.LineCount())
	}
	column := b.currentColumn()
	lineStart := b.backend.LineStart(line)
	lineLen := b.backend.LineEnd(line) - lineStart
	if column > lineLen {
		column = lineLen
	}
	b.cursorByte = nearestBoundaryAtOrBefore(content, lineStart+column)
	return nil
}

// currentColumn returns the sticky column if set, else the cursor's
// distance from its own line start.
func (b *Buffer) currentColumn() int {
	if b.stickyColumn != nil {
		return *b.stickyColumn
	}
	line := b.backend.LineContaining(b.cursorByte)
	return b.cursorByte - b.backend.LineStart(line)
}

// CursorUp moves the cursor up n lines, setting the sticky column from
// the current column if it was not already set.
func (b *Buffer) CursorUp(n int) {
	b.verticalMove(-n)
}

// CursorDown moves the cursor down n lines, setting the sticky column
// from the current column if it was not already set.
func (b *Buffer) CursorDown(n int) {
	b.verticalMove(n)
}

func (b *Buffer) verticalMove(deltaLines int) {
	if b.stickyColumn == nil {
		col := b.currentColumn()
		b.stickyColumn = &col
	}
	line := b.backend.LineContaining(b.cursorByte)
	target := line + deltaLines
	if target < 0 {
		target = 0
	}
	if target >= b.backend.LineCount() {
		target = b.backend.LineCount() - 1
	}
	content := b.content()
	lineStart := b.backend.LineStart(target)
	lineLen := b.backend.LineEnd(target) - lineStart
	column := *b.stickyColumn
	if column > lineLen {
		column = lineLen
	}
	b.cursorByte = nearestBoundaryAtOrBefore(content, lineStart+column)
}

// CursorLine returns the 0-based line the cursor is on.
func (b *Buffer) CursorLine() int { return b.backend.LineContaining(b.cursorByte) }

// CursorLineContent returns the content of the cursor's current line.
func (b *Buffer) CursorLineContent() string { return b.LineContent(b.CursorLine()) }

// CursorContent returns content from the cursor to the end of the buffer.
func (b *Buffer) CursorContent() string {
	content := b.content()
	return string(content[b.cursorByte:])
}

// Clear empties the buffer, resetting cursor and sticky column. Linkage
// and styles are untouched.
func (b *Buffer) Clear() {
	b.backend = storage.New(b.variant)
	b.cursorByte = 0
	b.stickyColumn = nil
}

// Length returns the buffer's byte length.
func (b *Buffer) Length() int { return b.backend.Len() }

// LineCount returns the number of lines (at least 1).
func (b *Buffer) LineCount() int { return b.backend.LineCount() }

// LineForIndex returns the line containing byteIndex.
func (b *Buffer) LineForIndex(byteIndex int) int { return b.backend.LineContaining(byteIndex) }

// LineLength returns the byte length of line, excluding its newline.
func (b *Buffer) LineLength(line int) int {
	return b.backend.LineEnd(line) - b.backend.LineStart(line)
}

// LineStart returns the byte offset where line begins.
func (b *Buffer) LineStart(line int) int { return b.backend.LineStart(line) }

// LineEnd returns the byte offset of line's trailing newline, or Length()
// for the final line.
func (b *Buffer) LineEnd(line int) int { return b.backend.LineEnd(line) }

// CursorByte returns the cursor's current byte offset.
func (b *Buffer) CursorByte() int { return b.cursorByte }

// Type returns the buffer's current storage variant.
func (b *Buffer) Type() storage.Variant { return b.variant }

// SetType swaps the storage backend, copying content byte-for-byte.
// set_type(t); set_type(t) is a no-op on content, cursor, and linkage,
// enforced here by short-circuiting when the variant is unchanged.
func (b *Buffer) SetType(variant storage.Variant) {
	if variant == b.variant {
		return
	}
	content := b.content()
	b.variant = variant
	b.backend = storage.NewFromContent(variant, content)
}
