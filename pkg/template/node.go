// Package template compiles a parsed, nested UI description into normalized
// template descriptors: a static skeleton shared across re-renders plus a
// dense table of dynamic slots (nodes and attributes) addressed by byte
// paths. The descriptors are what the rendering runtime instantiates, diffs
// and patches; the textual grammar that produces the input tree and the
// runtime that consumes the output live outside this package.
package template

// NodeKind discriminates the closed set of body node variants.
type NodeKind uint8

const (
	// KindElement is a built-in or custom element.
	KindElement NodeKind = iota
	// KindText is a text node, static or interpolated.
	KindText
	// KindExpr is an opaque expression spliced into the tree.
	KindExpr
	// KindForLoop is a repetition construct.
	KindForLoop
	// KindIfChain is an ordered conditional.
	KindIfChain
	// KindComponent is a component invocation.
	KindComponent
)

// Node is one node in a template body. The set of implementations is closed:
// Element, Text, ExprNode, ForLoop, IfChain and Component.
type Node interface {
	Kind() NodeKind
	Span() Span
	// Children returns the child nodes that belong to this node within the
	// same template body. Nested bodies (loop bodies, if branches, component
	// children) are independent indexing units and are not returned here.
	Children() []Node
}

// DynIdx is a set-once cell holding a dynamic slot index. Nodes and
// attributes are built before indexing runs, so the index is written back
// onto them afterwards; the cell enforces single assignment.
type DynIdx struct {
	idx int
	set bool
}

func (d *DynIdx) assign(idx int) {
	if d.set {
		panic("template: dynamic slot index assigned twice")
	}
	d.idx = idx
	d.set = true
}

// Get returns the assigned slot index, or -1 when the owner never received a
// dynamic slot.
func (d *DynIdx) Get() int {
	if !d.set {
		return -1
	}
	return d.idx
}

// Text is a text node. It is static when its value has no interpolations;
// otherwise it occupies a dynamic slot.
type Text struct {
	Value  FormatString
	DynIdx DynIdx
	Loc    Span
}

func (t *Text) Kind() NodeKind   { return KindText }
func (t *Text) Span() Span       { return t.Loc }
func (t *Text) Children() []Node { return nil }

// IsStatic reports whether the text is fully known at compile time.
func (t *Text) IsStatic() bool { return t.Value.IsStatic() }

// ExprNode is an opaque expression spliced into the tree. Always dynamic.
type ExprNode struct {
	Expr   string
	DynIdx DynIdx
	Loc    Span
}

func (e *ExprNode) Kind() NodeKind   { return KindExpr }
func (e *ExprNode) Span() Span       { return e.Loc }
func (e *ExprNode) Children() []Node { return nil }

// ForLoop is a repetition construct. The loop occupies one dynamic slot in
// the enclosing body; its Body is indexed independently.
type ForLoop struct {
	// Pat is the loop pattern, e.g. "item".
	Pat string
	// Expr is the iterable-producing expression.
	Expr   string
	Body   *TemplateBody
	DynIdx DynIdx
	Loc    Span
}

func (f *ForLoop) Kind() NodeKind   { return KindForLoop }
func (f *ForLoop) Span() Span       { return f.Loc }
func (f *ForLoop) Children() []Node { return nil }

// IfBranch is one (condition, body) arm of an if chain.
type IfBranch struct {
	Cond string
	Body *TemplateBody
}

// IfChain is an ordered conditional with an optional else arm. Always
// dynamic; each arm owns an independent body.
type IfChain struct {
	Branches []IfBranch
	Else     *TemplateBody
	DynIdx   DynIdx
	Loc      Span
}

func (c *IfChain) Kind() NodeKind   { return KindIfChain }
func (c *IfChain) Span() Span       { return c.Loc }
func (c *IfChain) Children() []Node { return nil }
