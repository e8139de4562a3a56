package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTemplateID_String(t *testing.T) {
	id := TemplateID{File: "app/views/list.ui", Line: 3, Col: 9, Ordinal: 1}
	if got, want := id.String(), "app/views/list.ui:3:9:1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestToTemplate_Skeleton(t *testing.T) {
	el := mustElement(t, []Attribute{
		staticAttr("class", "card"),
		formatAttr("id", Segment{Text: "node-"}, Segment{Expr: "id"}),
		eventAttr("onclick", "onSelect"),
	},
		staticText("hello"),
		exprNode("user.Name"),
	)
	body := mustBody(t, el, dynText("footer"))

	tpl := body.ToTemplate(Span{File: "app.ui", Line: 3, Col: 9})
	if tpl == nil {
		t.Fatal("non-empty body emitted no descriptor")
	}

	want := []TemplateNode{
		{
			Kind: TemplateElement,
			Tag:  "div",
			Attrs: []TemplateAttribute{
				{Static: true, Name: "class", Value: "card"},
				{Name: "id", ID: 0},
				{Name: "onclick", ID: 1},
			},
			Children: []TemplateNode{
				{Kind: TemplateText, Text: "hello"},
				{Kind: TemplateDynamic, ID: 0},
			},
		},
		{Kind: TemplateDynamicText, ID: 1},
	}
	if diff := cmp.Diff(want, tpl.Roots); diff != "" {
		t.Errorf("skeleton mismatch (-want +got):\n%s", diff)
	}

	if got, want := tpl.ID.String(), "app.ui:3:9:0"; got != want {
		t.Errorf("template identity = %q, want %q", got, want)
	}
	if len(tpl.NodePaths) != 2 || len(tpl.AttrPaths) != 2 {
		t.Errorf("path tables = %d nodes, %d attrs; want 2 and 2",
			len(tpl.NodePaths), len(tpl.AttrPaths))
	}
}

func TestToTemplate_ImplicitKeyCarried(t *testing.T) {
	key := FormatString{Segments: []Segment{{Expr: "item.id"}}}
	el, err := NewElement(divName(), &key, nil, nil, Span{})
	if err != nil {
		t.Fatalf("NewElement() failed: %v", err)
	}

	tpl := mustBody(t, el).ToTemplate(Span{File: "app.ui", Line: 1, Col: 1})
	if tpl.Key == nil {
		t.Error("implicit key missing from descriptor")
	}
}

func TestCallBody_TemplatesNestedIdentity(t *testing.T) {
	loop := &ForLoop{Pat: "item", Expr: "items", Body: mustBody(t, dynText("item"))}

	cb, err := NewCallBody(Span{File: "list.ui", Line: 7, Col: 2}, []Node{loop})
	if err != nil {
		t.Fatalf("NewCallBody() failed: %v", err)
	}

	tpls := cb.Templates()
	if len(tpls) != 2 {
		t.Fatalf("template count = %d, want 2", len(tpls))
	}
	if got, want := tpls[0].ID.String(), "list.ui:7:2:0"; got != want {
		t.Errorf("top-level identity = %q, want %q", got, want)
	}
	if got, want := tpls[1].ID.String(), "list.ui:7:2:1"; got != want {
		t.Errorf("loop body identity = %q, want %q", got, want)
	}
}

func TestCallBody_TemplatesSkipEmptyBodies(t *testing.T) {
	chain := &IfChain{
		Branches: []IfBranch{{Cond: "ok", Body: mustBody(t, staticText("yes"))}},
		Else:     mustBody(t),
	}

	cb, err := NewCallBody(Span{File: "cond.ui", Line: 1, Col: 1}, []Node{chain})
	if err != nil {
		t.Fatalf("NewCallBody() failed: %v", err)
	}

	// Top level plus the non-empty branch; the empty else arm emits nothing.
	tpls := cb.Templates()
	if len(tpls) != 2 {
		t.Fatalf("template count = %d, want 2", len(tpls))
	}
	for _, tpl := range tpls {
		if tpl.ID.Ordinal == 2 {
			t.Error("empty else body emitted a descriptor")
		}
	}
}
