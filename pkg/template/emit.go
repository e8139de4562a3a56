package template

import "fmt"

// TemplateID is the hot-reload identity of one template body: the source
// location of the enclosing invocation plus the body's nested-template
// ordinal. External tooling matches an old descriptor to a new one by this
// tuple, never by structural equality.
type TemplateID struct {
	File    string
	Line    int
	Col     int
	Ordinal int
}

func (id TemplateID) String() string {
	return fmt.Sprintf("%s:%d:%d:%d", id.File, id.Line, id.Col, id.Ordinal)
}

// TemplateNodeKind discriminates skeleton node variants.
type TemplateNodeKind uint8

const (
	// TemplateElement is a statically known element shell.
	TemplateElement TemplateNodeKind = iota
	// TemplateText is compile-time-constant text.
	TemplateText
	// TemplateDynamicText is a placeholder for an interpolated text slot.
	TemplateDynamicText
	// TemplateDynamic is a placeholder for any other dynamic node slot.
	TemplateDynamic
)

// TemplateNode is one node of the static skeleton. The skeleton mirrors the
// body's roots with every dynamic position replaced by a placeholder that
// carries only its slot index.
type TemplateNode struct {
	Kind TemplateNodeKind

	// Tag and Attrs are set for TemplateElement.
	Tag      string
	Attrs    []TemplateAttribute
	Children []TemplateNode

	// Text is set for TemplateText.
	Text string

	// ID is the dynamic slot index for placeholder kinds.
	ID int
}

// TemplateAttribute is one attribute in the skeleton: either a fully static
// name/value pair emitted inline, or a placeholder carrying the attribute's
// slot index.
type TemplateAttribute struct {
	Static bool
	Name   string
	Value  string
	ID     int
}

// Template is the descriptor handed to the rendering runtime and the codegen
// layer: the static skeleton plus the path tables for re-locating any slot's
// concrete tree position during a diff.
type Template struct {
	ID        TemplateID
	Roots     []TemplateNode
	NodePaths []NodePath
	AttrPaths []AttrPath

	// Key is the body's implicit reconciliation key, if any.
	Key *FormatString
}

// ToTemplate emits the descriptor for this body, identified by the enclosing
// invocation's location and the body's ordinal. Empty bodies have no
// descriptor and render as an absent node; callers get nil.
func (b *TemplateBody) ToTemplate(loc Span) *Template {
	if b.IsEmpty() {
		return nil
	}

	roots := make([]TemplateNode, len(b.Roots))
	for i, node := range b.Roots {
		roots[i] = emitNode(node)
	}

	return &Template{
		ID:        TemplateID{File: loc.File, Line: loc.Line, Col: loc.Col, Ordinal: b.Ordinal},
		Roots:     roots,
		NodePaths: b.NodePaths,
		AttrPaths: b.AttrPaths,
		Key:       b.ImplicitKey,
	}
}

func emitNode(node Node) TemplateNode {
	switch n := node.(type) {
	case *Element:
		attrs := make([]TemplateAttribute, len(n.MergedAttributes))
		for i := range n.MergedAttributes {
			attrs[i] = emitAttr(&n.MergedAttributes[i])
		}
		children := make([]TemplateNode, len(n.Kids))
		for i, kid := range n.Kids {
			children[i] = emitNode(kid)
		}
		return TemplateNode{Kind: TemplateElement, Tag: n.Name.Name, Attrs: attrs, Children: children}

	case *Text:
		if text, ok := n.Value.ToStatic(); ok {
			return TemplateNode{Kind: TemplateText, Text: text}
		}
		return TemplateNode{Kind: TemplateDynamicText, ID: n.DynIdx.Get()}

	case *ExprNode:
		return TemplateNode{Kind: TemplateDynamic, ID: n.DynIdx.Get()}
	case *ForLoop:
		return TemplateNode{Kind: TemplateDynamic, ID: n.DynIdx.Get()}
	case *IfChain:
		return TemplateNode{Kind: TemplateDynamic, ID: n.DynIdx.Get()}
	case *Component:
		return TemplateNode{Kind: TemplateDynamic, ID: n.DynIdx.Get()}
	}

	panic(fmt.Sprintf("template: unknown node kind %d", node.Kind()))
}

func emitAttr(attr *Attribute) TemplateAttribute {
	if value, ok := attr.Value.Format.ToStatic(); ok && attr.IsStaticLiteral() {
		return TemplateAttribute{Static: true, Name: attr.Name.Name, Value: value}
	}
	return TemplateAttribute{Name: attr.Name.Name, ID: attr.DynIdx.Get()}
}
