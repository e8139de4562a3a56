package template

import "strings"

// Segment is one piece of a formatted string: either a literal run of text
// or an embedded expression.
type Segment struct {
	Text string
	Expr string
}

// IsExpr reports whether the segment is an interpolation.
func (s Segment) IsExpr() bool {
	return s.Expr != ""
}

// FormatString is a string value with optional embedded interpolations, e.g.
// "node-{id}". It is the value type for text nodes, string attribute values
// and reconciliation keys.
type FormatString struct {
	Loc      Span
	Segments []Segment
}

// StaticString builds a format string with a single literal segment.
func StaticString(text string) FormatString {
	return FormatString{Segments: []Segment{{Text: text}}}
}

// IsStatic reports whether the string contains no interpolated segments.
func (f FormatString) IsStatic() bool {
	for _, seg := range f.Segments {
		if seg.IsExpr() {
			return false
		}
	}
	return true
}

// ToStatic joins the literal segments into the compile-time value of the
// string. It returns false when any segment is an interpolation.
func (f FormatString) ToStatic() (string, bool) {
	if !f.IsStatic() {
		return "", false
	}
	var sb strings.Builder
	for _, seg := range f.Segments {
		sb.WriteString(seg.Text)
	}
	return sb.String(), true
}

// String reconstructs the source form of the string, interpolations in
// braces. Used in error messages and tests.
func (f FormatString) String() string {
	var sb strings.Builder
	for _, seg := range f.Segments {
		if seg.IsExpr() {
			sb.WriteByte('{')
			sb.WriteString(seg.Expr)
			sb.WriteByte('}')
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// concat appends other's segments to f's, keeping f's location.
func (f FormatString) concat(other FormatString) FormatString {
	segments := make([]Segment, 0, len(f.Segments)+len(other.Segments))
	segments = append(segments, f.Segments...)
	segments = append(segments, other.Segments...)
	return FormatString{Loc: f.Loc, Segments: segments}
}
