package template

// NameKind classifies how an attribute name resolves.
type NameKind uint8

const (
	// NameKnown is a statically known built-in attribute name.
	NameKnown NameKind = iota
	// NameCustom is an arbitrary string attribute name.
	NameCustom
	// NameSpread marks a spread of a map-like expression; the entry has no
	// name of its own.
	NameSpread
)

// AttributeName is the name side of one attribute declaration.
type AttributeName struct {
	Kind NameKind
	Name string
	Loc  Span
}

// Matches reports whether two names resolve to the same attribute. Spread
// entries never match anything, each other included.
func (n AttributeName) Matches(other AttributeName) bool {
	if n.Kind == NameSpread || other.Kind == NameSpread {
		return false
	}
	return n.Kind == other.Kind && n.Name == other.Name
}

// ValueKind classifies an attribute value.
type ValueKind uint8

const (
	// ValueFormat is a string literal, possibly interpolated.
	ValueFormat ValueKind = iota
	// ValueExpr is an opaque expression value.
	ValueExpr
	// ValueEvent is an event handler expression.
	ValueEvent
	// ValueShorthand references a variable with the same name as the
	// attribute.
	ValueShorthand
	// ValueSpread spreads a map-like expression into the attribute set.
	ValueSpread
)

// AttrValue is the value side of one attribute declaration. Kind selects
// which field carries the payload.
type AttrValue struct {
	Kind      ValueKind
	Format    FormatString // ValueFormat
	Expr      string       // ValueExpr, ValueEvent, ValueSpread
	Shorthand string       // ValueShorthand
	Loc       Span
}

// Attribute is one attribute declaration on an element, or one field on a
// component invocation.
type Attribute struct {
	Name  AttributeName
	Value AttrValue

	// DynIdx is the attribute's slot in the enclosing body's attribute path
	// table. Only dynamic attributes receive one, during indexing.
	DynIdx DynIdx
}

// IsStaticLiteral reports whether the attribute can be rendered inline in
// the static skeleton: a named attribute whose value is a string with no
// interpolations. Everything else needs a dynamic slot.
func (a *Attribute) IsStaticLiteral() bool {
	if a.Name.Kind == NameSpread {
		return false
	}
	return a.Value.Kind == ValueFormat && a.Value.Format.IsStatic()
}

// tryCombine merges other's value into a copy of a. Combination is defined
// for exactly one kind pair: two string values concatenate. Every other
// pairing reports false and the caller keeps the existing entry.
func (a *Attribute) tryCombine(other *Attribute) (Attribute, bool) {
	if a.Value.Kind == ValueFormat && other.Value.Kind == ValueFormat {
		combined := *a
		combined.Value.Format = a.Value.Format.concat(other.Value.Format)
		return combined, true
	}
	return Attribute{}, false
}
