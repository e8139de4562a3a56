package template

// Severity ranks a diagnostic.
type Severity uint8

const (
	// SeverityError marks a semantic problem the toolchain should surface
	// as an error.
	SeverityError Severity = iota
	// SeverityWarning marks a suspicious but workable construct.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one advisory message attached to a source span. Diagnostics
// never abort compilation; the hard-error tier travels through error returns
// instead. Every diagnostic raised during validation reaches emission
// untouched.
type Diagnostic struct {
	Loc      Span
	Severity Severity
	Message  string
}

// Diagnostics accumulates advisory messages in the order they were raised.
type Diagnostics struct {
	list []Diagnostic
}

// Error appends an error-severity diagnostic at the given span.
func (d *Diagnostics) Error(loc Span, msg string) {
	d.list = append(d.list, Diagnostic{Loc: loc, Severity: SeverityError, Message: msg})
}

// Warn appends a warning-severity diagnostic at the given span.
func (d *Diagnostics) Warn(loc Span, msg string) {
	d.list = append(d.list, Diagnostic{Loc: loc, Severity: SeverityWarning, Message: msg})
}

// IsEmpty reports whether no diagnostics were raised.
func (d *Diagnostics) IsEmpty() bool {
	return len(d.list) == 0
}

// Items returns the accumulated diagnostics in order.
func (d *Diagnostics) Items() []Diagnostic {
	return d.list
}
