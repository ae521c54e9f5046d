package hdrgen

import "fmt"

// Location points at a single position in a source header.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Span covers a contiguous region of a source header.
type Span struct {
	Start Location
	End   Location
}

func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line && s.Start.Column == s.End.Column {
		return s.Start.String()
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d..%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d..%d:%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}
