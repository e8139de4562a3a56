package template

import "fmt"

// Span identifies a region of the original source file. The external grammar
// layer fills it in when it hands the compiler a parsed node tree.
type Span struct {
	File string
	Line int
	Col  int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// Errorf builds a hard parse error located at this span. Hard errors abort
// compilation of the enclosing template body; advisory problems go through
// Diagnostics instead.
func (s Span) Errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", s.String(), fmt.Sprintf(format, args...))
}
