package template

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func knownName(name string) AttributeName {
	return AttributeName{Kind: NameKnown, Name: name}
}

func staticAttr(name, value string) Attribute {
	return Attribute{
		Name:  knownName(name),
		Value: AttrValue{Kind: ValueFormat, Format: StaticString(value)},
	}
}

func formatAttr(name string, segments ...Segment) Attribute {
	return Attribute{
		Name:  knownName(name),
		Value: AttrValue{Kind: ValueFormat, Format: FormatString{Segments: segments}},
	}
}

func eventAttr(name, handler string) Attribute {
	return Attribute{
		Name:  knownName(name),
		Value: AttrValue{Kind: ValueEvent, Expr: handler},
	}
}

func spreadAttr(expr string) Attribute {
	return Attribute{
		Name:  AttributeName{Kind: NameSpread},
		Value: AttrValue{Kind: ValueSpread, Expr: expr},
	}
}

func divName() ElementName {
	return ElementName{Kind: TagKnown, Name: "div"}
}

func mustElement(t *testing.T, attrs []Attribute, kids ...Node) *Element {
	t.Helper()
	el, err := NewElement(divName(), nil, attrs, kids, Span{File: "test.ui", Line: 1, Col: 1})
	if err != nil {
		t.Fatalf("NewElement() failed: %v", err)
	}
	return el
}

func TestMergeAttributes_StaticStringsConcatenate(t *testing.T) {
	// div { class: "a", class: "b" } merges into class: "ab"
	el := mustElement(t, []Attribute{staticAttr("class", "a"), staticAttr("class", "b")})

	if len(el.MergedAttributes) != 1 {
		t.Fatalf("expected 1 merged attribute, got %d", len(el.MergedAttributes))
	}

	value, ok := el.MergedAttributes[0].Value.Format.ToStatic()
	if !ok {
		t.Fatal("merged attribute is not static")
	}
	if value != "ab" {
		t.Errorf("merged value = %q, want %q", value, "ab")
	}

	// The raw declaration list is untouched.
	if len(el.Attributes) != 2 {
		t.Errorf("raw attribute list was modified: %d entries", len(el.Attributes))
	}
}

func TestMergeAttributes_StaticAndDynamicConcatenate(t *testing.T) {
	el := mustElement(t, []Attribute{
		staticAttr("class", "btn "),
		formatAttr("class", Segment{Expr: "variant"}),
	})

	if len(el.MergedAttributes) != 1 {
		t.Fatalf("expected 1 merged attribute, got %d", len(el.MergedAttributes))
	}
	merged := el.MergedAttributes[0]
	if merged.IsStaticLiteral() {
		t.Error("merged interpolated attribute classified as static")
	}
	if got := merged.Value.Format.String(); got != "btn {variant}" {
		t.Errorf("merged format = %q, want %q", got, "btn {variant}")
	}
}

func TestMergeAttributes_CombinationMatrix(t *testing.T) {
	shorthand := Attribute{
		Name:  knownName("class"),
		Value: AttrValue{Kind: ValueShorthand, Shorthand: "class"},
	}

	tests := []struct {
		name      string
		attrs     []Attribute
		wantLen   int
		wantFirst ValueKind
	}{
		{
			name:      "format then shorthand keeps format",
			attrs:     []Attribute{staticAttr("class", "a"), shorthand},
			wantLen:   1,
			wantFirst: ValueFormat,
		},
		{
			name:      "shorthand then format keeps shorthand",
			attrs:     []Attribute{shorthand, staticAttr("class", "a")},
			wantLen:   1,
			wantFirst: ValueShorthand,
		},
		{
			name: "format then expr keeps format",
			attrs: []Attribute{
				staticAttr("class", "a"),
				{Name: knownName("class"), Value: AttrValue{Kind: ValueExpr, Expr: "computed"}},
			},
			wantLen:   1,
			wantFirst: ValueFormat,
		},
		{
			name:      "different names never merge",
			attrs:     []Attribute{staticAttr("class", "a"), staticAttr("id", "b")},
			wantLen:   2,
			wantFirst: ValueFormat,
		},
		{
			name:      "spreads never match each other",
			attrs:     []Attribute{spreadAttr("rest"), spreadAttr("more")},
			wantLen:   2,
			wantFirst: ValueSpread,
		},
		{
			name:      "spread never matches a named attribute",
			attrs:     []Attribute{staticAttr("class", "a"), spreadAttr("rest")},
			wantLen:   2,
			wantFirst: ValueFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := mergeAttributes(tt.attrs)
			if len(merged) != tt.wantLen {
				t.Fatalf("merged length = %d, want %d", len(merged), tt.wantLen)
			}
			if merged[0].Value.Kind != tt.wantFirst {
				t.Errorf("first entry kind = %d, want %d", merged[0].Value.Kind, tt.wantFirst)
			}
		})
	}
}

func TestMergeAttributes_Idempotent(t *testing.T) {
	attrs := []Attribute{
		staticAttr("class", "a"),
		staticAttr("class", "b"),
		formatAttr("id", Segment{Text: "node-"}, Segment{Expr: "id"}),
		spreadAttr("rest"),
	}

	merged := mergeAttributes(attrs)
	again := mergeAttributes(merged)

	if diff := cmp.Diff(merged, again, cmp.AllowUnexported(DynIdx{})); diff != "" {
		t.Errorf("re-merging changed the list (-first +second):\n%s", diff)
	}
}

func TestNewElement_DuplicateEventListener(t *testing.T) {
	attrs := []Attribute{eventAttr("onclick", "handlerA"), eventAttr("onclick", "handlerB")}

	_, err := NewElement(divName(), nil, attrs, nil, Span{File: "test.ui", Line: 3, Col: 5})
	if err == nil {
		t.Fatal("expected a hard parse error for duplicate event listener")
	}
	if !strings.Contains(err.Error(), "duplicate event listener") {
		t.Errorf("error = %q, want it to mention the duplicate listener", err)
	}
}

func TestNewElement_DistinctEventListeners(t *testing.T) {
	attrs := []Attribute{eventAttr("onclick", "handlerA"), eventAttr("onkeydown", "handlerB")}

	if _, err := NewElement(divName(), nil, attrs, nil, Span{}); err != nil {
		t.Fatalf("distinct listeners rejected: %v", err)
	}
}

func TestNewElement_StaticKeyRejected(t *testing.T) {
	key := StaticString("item-1")

	_, err := NewElement(divName(), &key, nil, nil, Span{File: "test.ui", Line: 2, Col: 2})
	if err == nil {
		t.Fatal("expected a hard parse error for a static element key")
	}
}

func TestNewElement_InterpolatedKeyAccepted(t *testing.T) {
	key := FormatString{Segments: []Segment{{Expr: "item.id"}}}

	el, err := NewElement(divName(), &key, nil, nil, Span{})
	if err != nil {
		t.Fatalf("interpolated key rejected: %v", err)
	}
	if el.Key == nil {
		t.Error("key was dropped")
	}
}

func TestAttribute_IsStaticLiteral(t *testing.T) {
	tests := []struct {
		name string
		attr Attribute
		want bool
	}{
		{"static string", staticAttr("class", "a"), true},
		{"interpolated string", formatAttr("id", Segment{Expr: "id"}), false},
		{"event handler", eventAttr("onclick", "h"), false},
		{"spread", spreadAttr("rest"), false},
		{
			"shorthand",
			Attribute{Name: knownName("class"), Value: AttrValue{Kind: ValueShorthand, Shorthand: "class"}},
			false,
		},
		{
			"custom name with static value",
			Attribute{
				Name:  AttributeName{Kind: NameCustom, Name: "data-x"},
				Value: AttrValue{Kind: ValueFormat, Format: StaticString("1")},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attr.IsStaticLiteral(); got != tt.want {
				t.Errorf("IsStaticLiteral() = %v, want %v", got, tt.want)
			}
		})
	}
}
