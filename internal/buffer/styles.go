package buffer

// StyleRule is one entry of a buffer's style stack: a name and the
// regex source the external styling engine matches against. The core
// never interprets the regex itself; it only keeps the ordered stack
// so the styling engine can be handed a consistent view on each render.
type StyleRule struct {
	Name  string
	Regex string
}

// ClearStyles empties the buffer's style stack.
func (b *Buffer) ClearStyles() {
	b.styles = b.styles[:0]
}

// PushStyle appends one style rule to the stack.
func (b *Buffer) PushStyle(name, regex string) {
	b.styles = append(b.styles, StyleRule{Name: name, Regex: regex})
}

// Styles returns the current style stack. Callers must not mutate the
// result.
func (b *Buffer) Styles() []StyleRule {
	return b.styles
}
