package template

// NodePath locates a node from a template body's roots: one byte per level,
// each the child offset at that depth.
type NodePath []byte

// AttrPath locates a dynamic attribute: the owning node's path plus the
// attribute's offset in the merged attribute list.
type AttrPath []byte

// maxPathOffset is the largest offset one path byte can carry. Templates
// wider or deeper than this are out of the supported range and fail at
// compile time rather than silently truncating.
const maxPathOffset = 255

// TemplateBody is one indexed unit of template structure: the roots of a
// source invocation, a loop body, an if-chain branch, or component children.
// Construction runs the indexing pass; the path tables are immutable
// afterwards. Slot indices never cross a body boundary: nested bodies own
// their own tables and counters.
type TemplateBody struct {
	Roots []Node

	// Ordinal is the nested-template ordinal within the enclosing top-level
	// invocation, assigned by NewCallBody in traversal order. Together with
	// the invocation's source location it forms the body's hot-reload
	// identity.
	Ordinal int

	// ImplicitKey is hoisted from a sole Element or Component root. List
	// reconciliation uses it when this body is the body of a for loop.
	ImplicitKey *FormatString

	// NodePaths has one entry per dynamic node; entry i is the path of the
	// node holding slot index i.
	NodePaths []NodePath

	// AttrPaths has one entry per dynamic attribute. Attribute slots are an
	// index space of their own, not interleaved with node slots.
	AttrPaths []AttrPath

	current []byte
}

// NewBody indexes a list of sibling nodes into a template body. Every
// dynamic node and dynamic attribute receives a path and a dense zero-based
// slot index, assigned in depth-first, left-to-right pre-order. A body with
// zero roots is valid and renders as an absent node.
func NewBody(nodes []Node) (*TemplateBody, error) {
	b := &TemplateBody{}
	if err := b.assignPaths(nodes); err != nil {
		return nil, err
	}
	b.current = nil
	b.Roots = nodes
	b.ImplicitKey = implicitKey(nodes)
	return b, nil
}

// assignPaths walks a sibling list, recording paths and handing out slot
// indices. Elements are never dynamic themselves: their non-static merged
// attributes are recorded and their children walked in place. Loop bodies,
// if branches and component children are separate bodies and are not walked
// here.
func (b *TemplateBody) assignPaths(nodes []Node) error {
	if len(nodes) > maxPathOffset {
		return nodes[maxPathOffset].Span().Errorf(
			"template level has %d children; at most %d are supported", len(nodes), maxPathOffset)
	}

	for idx, node := range nodes {
		if len(b.current) >= maxPathOffset {
			return node.Span().Errorf("template nesting exceeds %d levels", maxPathOffset)
		}
		b.current = append(b.current, byte(idx))

		switch n := node.(type) {
		case *Element:
			if len(n.MergedAttributes) > maxPathOffset {
				return n.Loc.Errorf(
					"element has %d attributes; at most %d are supported", len(n.MergedAttributes), maxPathOffset)
			}
			for attrIdx := range n.MergedAttributes {
				attr := &n.MergedAttributes[attrIdx]
				if !attr.IsStaticLiteral() {
					b.assignAttr(attr, attrIdx)
				}
			}
			if err := b.assignPaths(n.Kids); err != nil {
				return err
			}

		case *Text:
			if !n.IsStatic() {
				b.assignNode(&n.DynIdx)
			}

		case *ExprNode:
			b.assignNode(&n.DynIdx)
		case *ForLoop:
			b.assignNode(&n.DynIdx)
		case *IfChain:
			b.assignNode(&n.DynIdx)
		case *Component:
			b.assignNode(&n.DynIdx)
		}

		b.current = b.current[:len(b.current)-1]
	}

	return nil
}

// assignNode gives the node the next dense slot index and records its path.
func (b *TemplateBody) assignNode(cell *DynIdx) {
	path := make(NodePath, len(b.current))
	copy(path, b.current)
	cell.assign(len(b.NodePaths))
	b.NodePaths = append(b.NodePaths, path)
}

// assignAttr records an attribute path (node path + attribute offset) and
// gives the attribute its slot in the attribute index space.
func (b *TemplateBody) assignAttr(attr *Attribute, offset int) {
	path := make(AttrPath, len(b.current)+1)
	copy(path, b.current)
	path[len(b.current)] = byte(offset)
	attr.DynIdx.assign(len(b.AttrPaths))
	b.AttrPaths = append(b.AttrPaths, path)
}

// IsEmpty reports whether the body has no roots.
func (b *TemplateBody) IsEmpty() bool {
	return len(b.Roots) == 0
}

// DynNode resolves a recorded node path against the roots.
func (b *TemplateBody) DynNode(path NodePath) Node {
	node := b.Roots[path[0]]
	for _, idx := range path[1:] {
		node = node.Children()[idx]
	}
	return node
}

// DynAttr resolves a recorded attribute path to the merged attribute it
// addresses. Attribute paths always end inside an element.
func (b *TemplateBody) DynAttr(path AttrPath) *Attribute {
	el := b.DynNode(NodePath(path[:len(path)-1])).(*Element)
	return &el.MergedAttributes[path[len(path)-1]]
}

// DynamicNodes returns the body's dynamic nodes in slot order.
func (b *TemplateBody) DynamicNodes() []Node {
	nodes := make([]Node, len(b.NodePaths))
	for i, path := range b.NodePaths {
		nodes[i] = b.DynNode(path)
	}
	return nodes
}

// DynamicAttributes returns the body's dynamic attributes in slot order.
func (b *TemplateBody) DynamicAttributes() []*Attribute {
	attrs := make([]*Attribute, len(b.AttrPaths))
	for i, path := range b.AttrPaths {
		attrs[i] = b.DynAttr(path)
	}
	return attrs
}

// implicitKey hoists a reconciliation key to the body when it has exactly
// one root and that root is a keyed element or a keyed component. Any other
// shape has no implicit key.
func implicitKey(roots []Node) *FormatString {
	if len(roots) != 1 {
		return nil
	}
	switch n := roots[0].(type) {
	case *Element:
		return n.Key
	case *Component:
		if attr := n.Key(); attr != nil && attr.Value.Kind == ValueFormat {
			key := attr.Value.Format
			return &key
		}
	}
	return nil
}
