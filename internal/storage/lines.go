package storage

import "sort"

// lineIndex tracks the byte offsets of '\n' characters in a content
// buffer. It is derived entirely from the content: buildLineIndex
// recomputes it from the authoritative bytes in O(n), and every line
// query of a backend reads it. Both backends keep one of these and update
// it incrementally on insert/delete rather than rebuilding on every edit.
type lineIndex struct {
	// newlineOffsets is always sorted ascending.
	newlineOffsets []int
}

func buildLineIndex(content []byte) lineIndex {
	var offsets []int
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i)
		}
	}
	return lineIndex{newlineOffsets: offsets}
}

func (li *lineIndex) lineCount() int {
	return len(li.newlineOffsets) + 1
}

// lineStart returns the byte offset where line begins.
func (li *lineIndex) lineStart(line int, length int) int {
	if line <= 0 {
		return 0
	}
	if line-1 >= len(li.newlineOffsets) {
		return length
	}
	return li.newlineOffsets[line-1] + 1
}

// lineEnd returns the byte offset of line's trailing newline, or length
// for the final line.
func (li *lineIndex) lineEnd(line int, length int) int {
	if line < 0 || line >= len(li.newlineOffsets) {
		return length
	}
	return li.newlineOffsets[line]
}

// lineContaining binary-searches the newline table for the line owning
// byteIndex.
func (li *lineIndex) lineContaining(byteIndex int) int {
	// The line containing byteIndex is the count of newlines strictly
	// before byteIndex.
	return sort.Search(len(li.newlineOffsets), func(i int) bool {
		return li.newlineOffsets[i] >= byteIndex
	})
}

// insert shifts every recorded newline offset at or after byteIndex right
// by len(data), then splices in any new newlines contained in data itself.
func (li *lineIndex) insert(byteIndex int, data []byte) {
	shift := len(data)
	splitAt := sort.Search(len(li.newlineOffsets), func(i int) bool {
		return li.newlineOffsets[i] >= byteIndex
	})
	for i := splitAt; i < len(li.newlineOffsets); i++ {
		li.newlineOffsets[i] += shift
	}

	var inserted []int
	for i, b := range data {
		if b == '\n' {
			inserted = append(inserted, byteIndex+i)
		}
	}
	if len(inserted) == 0 {
		return
	}
	merged := make([]int, 0, len(li.newlineOffsets)+len(inserted))
	merged = append(merged, li.newlineOffsets[:splitAt]...)
	merged = append(merged, inserted...)
	merged = append(merged, li.newlineOffsets[splitAt:]...)
	li.newlineOffsets = merged
}

// remove deletes byteCount bytes starting at byteIndex from the index:
// any newline offsets inside the removed range are dropped, and offsets
// after the range shift left by byteCount.
func (li *lineIndex) remove(byteIndex int, byteCount int) {
	end := byteIndex + byteCount
	out := li.newlineOffsets[:0:0]
	for _, off := range li.newlineOffsets {
		switch {
		case off < byteIndex:
			out = append(out, off)
		case off >= end:
			out = append(out, off-byteCount)
		default:
			// inside the removed range: drop it
		}
	}
	li.newlineOffsets = out
}
