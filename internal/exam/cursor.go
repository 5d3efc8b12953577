package exam

// Cursor is the bounded index into the flattened title sequence. Next and
// Prev stop at the boundaries (no wraparound); GoTo clamps out-of-range
// input instead of failing. Consumers subscribe to changes to re-render
// the newly active title.
type Cursor struct {
	index    int
	total    int
	onChange func(int)
}

// NewCursor creates a cursor over total titles, positioned at 0.
func NewCursor(total int) *Cursor {
	if total < 1 {
		total = 1
	}
	return &Cursor{total: total}
}

// OnChange registers the change notification. Fired only when the index
// actually moves.
func (c *Cursor) OnChange(fn func(index int)) {
	c.onChange = fn
}

// Index returns the current title index.
func (c *Cursor) Index() int { return c.index }

// Total returns the number of titles.
func (c *Cursor) Total() int { return c.total }

// Next advances to the following title. No-op at the last index.
func (c *Cursor) Next() {
	c.GoTo(c.index + 1)
}

// Prev moves to the preceding title. No-op at index 0.
func (c *Cursor) Prev() {
	c.GoTo(c.index - 1)
}

// GoTo jumps directly to a title index, clamping to the valid range.
func (c *Cursor) GoTo(index int) {
	if index < 0 {
		index = 0
	}
	if index > c.total-1 {
		index = c.total - 1
	}
	if index == c.index {
		return
	}
	c.index = index
	if c.onChange != nil {
		c.onChange(c.index)
	}
}
