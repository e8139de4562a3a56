package template

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PathSegment is one segment of a component invocation path. Only the final
// segment may carry generic arguments.
type PathSegment struct {
	Ident    string
	Generics string
	Loc      Span
}

// Component is a component invocation: a path, an ordered field list and a
// nested body for its children. The invocation always occupies one dynamic
// slot in the enclosing body.
//
// Components are validated, not rejected: structurally questionable input
// still yields a usable node plus a diagnostics set, so incremental tooling
// can keep showing partial structure instead of failing all-or-nothing.
type Component struct {
	Path   []PathSegment
	Fields []Attribute
	// Body holds the component's children, indexed independently.
	Body        *TemplateBody
	DynIdx      DynIdx
	Diagnostics Diagnostics
	Loc         Span
}

func (c *Component) Kind() NodeKind   { return KindComponent }
func (c *Component) Span() Span       { return c.Loc }
func (c *Component) Children() []Node { return nil }

// NewComponent normalizes a parsed component invocation. Each validation
// check runs independently of the others and appends at most one diagnostic
// per violation; none of them abort.
func NewComponent(path []PathSegment, fields []Attribute, body *TemplateBody, loc Span) *Component {
	c := &Component{Path: path, Fields: fields, Body: body, Loc: loc}
	if c.Body == nil {
		c.Body = &TemplateBody{}
	}

	c.validatePath()
	c.validateFields()
	c.validateKey()
	c.validateSpread()

	return c
}

// Name returns the dotted source form of the invocation path.
func (c *Component) Name() string {
	idents := make([]string, len(c.Path))
	for i, seg := range c.Path {
		idents[i] = seg.Ident
	}
	return strings.Join(idents, ".")
}

// Key returns the component's key field, if declared.
func (c *Component) Key() *Attribute {
	for i := range c.Fields {
		if c.Fields[i].Name.Kind == NameKnown && c.Fields[i].Name.Name == "key" {
			return &c.Fields[i]
		}
	}
	return nil
}

// validatePath rejects names that look like elements: a single lowercase
// identifier with no underscore. It also rejects generic arguments on any
// segment but the last.
func (c *Component) validatePath() {
	if len(c.Path) == 0 {
		return
	}

	if len(c.Path) == 1 {
		ident := c.Path[0].Ident
		first, _ := utf8.DecodeRuneInString(ident)
		if unicode.IsLower(first) && !strings.ContainsRune(ident, '_') {
			c.Diagnostics.Error(c.Path[0].Loc,
				"component names must be capitalized, contain an underscore, or be a path")
		}
	}

	for _, seg := range c.Path[:len(c.Path)-1] {
		if seg.Generics != "" {
			c.Diagnostics.Error(seg.Loc,
				"only the final path segment may carry generic arguments")
			break
		}
	}
}

// validateFields rejects custom field names outright (components accept only
// statically known prop names) and flags duplicate known fields. The first
// declaration of a duplicated field wins for codegen.
func (c *Component) validateFields() {
	seen := make(map[string]bool)

	for i := range c.Fields {
		field := &c.Fields[i]
		switch field.Name.Kind {
		case NameCustom:
			c.Diagnostics.Error(field.Name.Loc,
				fmt.Sprintf("custom attribute %q is not supported on components; only known prop names are allowed", field.Name.Name))
		case NameKnown:
			if seen[field.Name.Name] {
				c.Diagnostics.Error(field.Name.Loc,
					fmt.Sprintf("duplicate prop %q; the first declaration wins", field.Name.Name))
			}
			seen[field.Name.Name] = true
		case NameSpread:
			// checked by validateSpread
		}
	}
}

// validateKey requires a declared key to be an interpolated string. A static
// key is flagged as a warning: it compiles, but it defeats list
// reconciliation and is almost certainly a caller mistake. A non-string key
// is malformed.
func (c *Component) validateKey() {
	attr := c.Key()
	if attr == nil {
		return
	}

	switch {
	case attr.Value.Kind == ValueFormat && attr.Value.Format.IsStatic():
		c.Diagnostics.Warn(attr.Value.Loc,
			`key must not be a static string; use a formatted string like "{value}"`)
	case attr.Value.Kind == ValueFormat:
		// interpolated string key, valid
	default:
		c.Diagnostics.Error(attr.Value.Loc,
			`key must be a formatted string like "{value}"`)
	}
}

// validateSpread requires the spread-remaining-props field, if present, to be
// the last field.
func (c *Component) validateSpread() {
	for i := range c.Fields {
		if c.Fields[i].Value.Kind == ValueSpread {
			if i != len(c.Fields)-1 {
				c.Diagnostics.Error(c.Fields[i].Value.Loc,
					"spread props must be the last field of the component")
			}
			break
		}
	}
}
