package main

import "testing"

func TestDescriptorName(t *testing.T) {
	tests := []struct {
		name string
		root string
		file string
		want string
	}{
		{
			name: "artifact at the root",
			root: "build/artifacts",
			file: "build/artifacts/list.ui.json",
			want: "list.tpl.json",
		},
		{
			name: "artifact in a subdirectory",
			root: "build/artifacts",
			file: "build/artifacts/views/list.ui.json",
			want: "views_list.tpl.json",
		},
		{
			name: "same basename in a sibling subdirectory",
			root: "build/artifacts",
			file: "build/artifacts/admin/list.ui.json",
			want: "admin_list.tpl.json",
		},
		{
			name: "explicit file outside the artifact root",
			root: "build/artifacts",
			file: "gen/list.ui.json",
			want: "gen_list.tpl.json",
		},
		{
			name: "plain json suffix",
			root: "build/artifacts",
			file: "build/artifacts/list.json",
			want: "list.tpl.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := descriptorName(tt.root, tt.file); got != tt.want {
				t.Errorf("descriptorName(%q, %q) = %q, want %q", tt.root, tt.file, got, tt.want)
			}
		})
	}
}

// Artifacts with one basename in different subdirectories must not map to the
// same descriptor file.
func TestDescriptorName_NoCollision(t *testing.T) {
	root := "build/artifacts"
	a := descriptorName(root, "build/artifacts/a/list.ui.json")
	b := descriptorName(root, "build/artifacts/b/list.ui.json")
	if a == b {
		t.Errorf("descriptors collide: both map to %q", a)
	}
}
