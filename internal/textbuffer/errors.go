package textbuffer

import "errors"

// ErrOutOfBounds names an offset past the buffer's total byte length. No
// TextBuffer method returns it: InsertBytes and DeleteRange clamp such
// offsets.
var ErrOutOfBounds = errors.New("textbuffer: offset out of bounds")

func invariantViolation(msg string) {
	panic("textbuffer: invariant violation: " + msg)
}
