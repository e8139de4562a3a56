package template

// CallBody is the full contents of one template invocation: the top-level
// body plus every nested body reachable from it through loop bodies, if
// branches and component children. Constructing it assigns each body its
// nested-template ordinal, so recompiling the same source location yields
// the same identities and hot reload can correlate old and new descriptors.
type CallBody struct {
	Body *TemplateBody
	Loc  Span
}

// NewCallBody indexes a node list as the top-level body of the invocation at
// loc and numbers every nested body in depth-first traversal order.
func NewCallBody(loc Span, nodes []Node) (*CallBody, error) {
	body, err := NewBody(nodes)
	if err != nil {
		return nil, err
	}

	cb := &CallBody{Body: body, Loc: loc}

	// The ordinal counter is explicit state threaded through the walk, not a
	// global, so repeated compilations of one invocation are reproducible.
	next := 0
	numberBodies(body, &next)

	return cb, nil
}

// numberBodies assigns the next ordinal to body, then descends into the
// nested bodies hanging off its dynamic nodes in slot order.
func numberBodies(body *TemplateBody, next *int) {
	body.Ordinal = *next
	*next++

	for _, node := range body.DynamicNodes() {
		switch n := node.(type) {
		case *ForLoop:
			numberBodies(n.Body, next)
		case *IfChain:
			for i := range n.Branches {
				numberBodies(n.Branches[i].Body, next)
			}
			if n.Else != nil {
				numberBodies(n.Else, next)
			}
		case *Component:
			numberBodies(n.Body, next)
		}
	}
}

// Templates emits descriptors for every non-empty body of the invocation, in
// ordinal order.
func (cb *CallBody) Templates() []*Template {
	var templates []*Template
	collectTemplates(cb.Body, cb.Loc, &templates)
	return templates
}

func collectTemplates(body *TemplateBody, loc Span, out *[]*Template) {
	if tpl := body.ToTemplate(loc); tpl != nil {
		*out = append(*out, tpl)
	}
	for _, node := range body.DynamicNodes() {
		switch n := node.(type) {
		case *ForLoop:
			collectTemplates(n.Body, loc, out)
		case *IfChain:
			for i := range n.Branches {
				collectTemplates(n.Branches[i].Body, loc, out)
			}
			if n.Else != nil {
				collectTemplates(n.Else, loc, out)
			}
		case *Component:
			collectTemplates(n.Body, loc, out)
		}
	}
}

// Diagnostics gathers every advisory diagnostic raised while normalizing the
// invocation, in traversal order. Nothing is dropped on the way to emission.
func (cb *CallBody) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	collectDiagnostics(cb.Body, &diags)
	return diags
}

func collectDiagnostics(body *TemplateBody, out *[]Diagnostic) {
	for _, node := range body.DynamicNodes() {
		switch n := node.(type) {
		case *ForLoop:
			collectDiagnostics(n.Body, out)
		case *IfChain:
			for i := range n.Branches {
				collectDiagnostics(n.Branches[i].Body, out)
			}
			if n.Else != nil {
				collectDiagnostics(n.Else, out)
			}
		case *Component:
			*out = append(*out, n.Diagnostics.Items()...)
			collectDiagnostics(n.Body, out)
		}
	}
}
