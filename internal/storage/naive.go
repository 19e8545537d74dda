package storage

// naiveBackend is the flat-bytes storage strategy: content lives in a
// single contiguous slice and every insert/delete is an O(n) slice
// splice. It is the simplest backend and the one correctness is checked
// against.
type naiveBackend struct {
	content []byte
	lines   lineIndex
}

func newNaiveBackend(content []byte) *naiveBackend {
	buf := make([]byte, len(content))
	copy(buf, content)
	return &naiveBackend{
		content: buf,
		lines:   buildLineIndex(buf),
	}
}

func (b *naiveBackend) Insert(byteIndex int, data []byte) {
	if len(data) == 0 {
		return
	}
	byteIndex = clampIndex(byteIndex, len(b.content))
	grown := make([]byte, len(b.content)+len(data))
	copy(grown, b.content[:byteIndex])
	copy(grown[byteIndex:], data)
	copy(grown[byteIndex+len(data):], b.content[byteIndex:])
	b.content = grown
	b.lines.insert(byteIndex, data)
}

func (b *naiveBackend) Delete(byteIndex int, byteCount int) []byte {
	byteIndex = clampIndex(byteIndex, len(b.content))
	byteCount = clampCount(byteIndex, byteCount, len(b.content))
	if byteCount == 0 {
		return nil
	}
	removed := make([]byte, byteCount)
	copy(removed, b.content[byteIndex:byteIndex+byteCount])

	shrunk := make([]byte, len(b.content)-byteCount)
	copy(shrunk, b.content[:byteIndex])
	copy(shrunk[byteIndex:], b.content[byteIndex+byteCount:])
	b.content = shrunk
	b.lines.remove(byteIndex, byteCount)
	return removed
}

func (b *naiveBackend) Slice(byteIndex int, byteCount int) []byte {
	byteIndex = clampIndex(byteIndex, len(b.content))
	byteCount = clampCount(byteIndex, byteCount, len(b.content))
	out := make([]byte, byteCount)
	copy(out, b.content[byteIndex:byteIndex+byteCount])
	return out
}

func (b *naiveBackend) Len() int { return len(b.content) }

func (b *naiveBackend) LineCount() int { return b.lines.lineCount() }

func (b *naiveBackend) LineStart(line int) int { return b.lines.lineStart(line, len(b.content)) }

func (b *naiveBackend) LineEnd(line int) int { return b.lines.lineEnd(line, len(b.content)) }

func (b *naiveBackend) LineContaining(byteIndex int) int { return b.lines.lineContaining(byteIndex) }

func (b *naiveBackend) Bytes() []byte { return b.content }
