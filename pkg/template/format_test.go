package template

import "testing"

func TestFormatString_Static(t *testing.T) {
	f := FormatString{Segments: []Segment{{Text: "node-"}, {Text: "1"}}}

	if !f.IsStatic() {
		t.Error("IsStatic() = false for literal-only segments")
	}
	value, ok := f.ToStatic()
	if !ok || value != "node-1" {
		t.Errorf("ToStatic() = %q, %v; want %q, true", value, ok, "node-1")
	}
}

func TestFormatString_Interpolated(t *testing.T) {
	f := FormatString{Segments: []Segment{{Text: "node-"}, {Expr: "id"}}}

	if f.IsStatic() {
		t.Error("IsStatic() = true for an interpolated string")
	}
	if _, ok := f.ToStatic(); ok {
		t.Error("ToStatic() succeeded for an interpolated string")
	}
	if got, want := f.String(), "node-{id}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFormatString_EmptyIsStatic(t *testing.T) {
	var f FormatString
	value, ok := f.ToStatic()
	if !ok || value != "" {
		t.Errorf("ToStatic() = %q, %v; want empty string, true", value, ok)
	}
}

func TestIsBuiltinTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"div", true},
		{"textarea", true},
		{"my-widget", false},
		{"DIV", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsBuiltinTag(tt.tag); got != tt.want {
			t.Errorf("IsBuiltinTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}
