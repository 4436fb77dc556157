package gridio

import "fmt"

// FormatError reports malformed grid file content. Line and Column are
// 1-based; zero means the position does not apply.
type FormatError struct {
	Line   int
	Column int
	Msg    string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("format error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("format error at line %d: %s", e.Line, e.Msg)
	default:
		return "format error: " + e.Msg
	}
}

// ShapeMismatchError reports a loaded grid whose shape differs from the
// dimensions the caller asked for.
type ShapeMismatchError struct {
	WantHeight, WantWidth int
	GotHeight, GotWidth   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("grid shape mismatch: expected %dx%d, got %dx%d",
		e.WantHeight, e.WantWidth, e.GotHeight, e.GotWidth)
}

// IOError reports a file that could not be opened, read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
