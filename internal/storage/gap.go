package storage

// gapBackend keeps content in a single array with a contiguous gap of
// unused capacity positioned at the last edit site. Insertions at the
// gap are O(1) amortized; moving the gap elsewhere costs O(distance
// moved), which is cheap for the common case of clustered edits (typing,
// line-at-a-time deletion) that this backend exists to optimize.
//
// Layout: buf[0:gapStart] and buf[gapEnd:] hold live content, in that
// order; buf[gapStart:gapEnd] is unused capacity. Logical byte offset b
// maps to buf[b] when b < gapStart, or buf[b+(gapEnd-gapStart)] when
// b >= gapStart.
type gapBackend struct {
	buf      []byte
	gapStart int
	gapEnd   int
	lines    lineIndex
}

const minGapCapacity = 64

func newGapBackend(content []byte) *gapBackend {
	buf := make([]byte, len(content)+minGapCapacity)
	copy(buf, content)
	g := &gapBackend{
		buf:      buf,
		gapStart: len(content),
		gapEnd:   len(buf),
	}
	g.lines = buildLineIndex(content)
	return g
}

func (g *gapBackend) length() int {
	return len(g.buf) - (g.gapEnd - g.gapStart)
}

// moveGapTo relocates the gap so that gapStart == byteIndex, shifting
// the minimal span of live bytes across the gap.
func (g *gapBackend) moveGapTo(byteIndex int) {
	switch {
	case byteIndex < g.gapStart:
		// Shift the [byteIndex, gapStart) span rightward into the gap's
		// tail, shrinking the gap's visible hole from the front.
		n := g.gapStart - byteIndex
		copy(g.buf[g.gapEnd-n:g.gapEnd], g.buf[byteIndex:g.gapStart])
		g.gapStart -= n
		g.gapEnd -= n
	case byteIndex > g.gapStart:
		// Shift the [gapEnd, gapEnd+n) span leftward across the gap.
		n := byteIndex - g.gapStart
		copy(g.buf[g.gapStart:g.gapStart+n], g.buf[g.gapEnd:g.gapEnd+n])
		g.gapStart += n
		g.gapEnd += n
	}
}

func (g *gapBackend) growGap(minCapacity int) {
	if g.gapEnd-g.gapStart >= minCapacity {
		return
	}
	need := minCapacity - (g.gapEnd - g.gapStart)
	grown := make([]byte, len(g.buf)+need)
	copy(grown, g.buf[:g.gapStart])
	tailLen := len(g.buf) - g.gapEnd
	copy(grown[len(grown)-tailLen:], g.buf[g.gapEnd:])
	g.buf = grown
	g.gapEnd = len(g.buf) - tailLen
}

func (g *gapBackend) Insert(byteIndex int, data []byte) {
	if len(data) == 0 {
		return
	}
	byteIndex = clampIndex(byteIndex, g.length())
	g.growGap(len(data))
	g.moveGapTo(byteIndex)
	copy(g.buf[g.gapStart:], data)
	g.gapStart += len(data)
	g.lines.insert(byteIndex, data)
}

func (g *gapBackend) Delete(byteIndex int, byteCount int) []byte {
	length := g.length()
	byteIndex = clampIndex(byteIndex, length)
	byteCount = clampCount(byteIndex, byteCount, length)
	if byteCount == 0 {
		return nil
	}
	removed := g.Slice(byteIndex, byteCount)
	g.moveGapTo(byteIndex)
	g.gapEnd += byteCount
	g.lines.remove(byteIndex, byteCount)
	return removed
}

func (g *gapBackend) Slice(byteIndex int, byteCount int) []byte {
	length := g.length()
	byteIndex = clampIndex(byteIndex, length)
	byteCount = clampCount(byteIndex, byteCount, length)
	out := make([]byte, byteCount)
	for i := 0; i < byteCount; i++ {
		out[i] = g.byteAt(byteIndex + i)
	}
	return out
}

func (g *gapBackend) byteAt(logical int) byte {
	if logical < g.gapStart {
		return g.buf[logical]
	}
	return g.buf[logical+(g.gapEnd-g.gapStart)]
}

func (g *gapBackend) Len() int { return g.length() }

func (g *gapBackend) LineCount() int { return g.lines.lineCount() }

func (g *gapBackend) LineStart(line int) int { return g.lines.lineStart(line, g.length()) }

func (g *gapBackend) LineEnd(line int) int { return g.lines.lineEnd(line, g.length()) }

func (g *gapBackend) LineContaining(byteIndex int) int { return g.lines.lineContaining(byteIndex) }

// Bytes materializes the full logical content, closing the gap in a copy.
func (g *gapBackend) Bytes() []byte {
	out := make([]byte, g.length())
	copy(out, g.buf[:g.gapStart])
	copy(out[g.gapStart:], g.buf[g.gapEnd:])
	return out
}
