package artifact

import (
	"encoding/json"

	"github.com/loom-ui/loom/pkg/template"
)

// Result is the full output of compiling one artifact: every descriptor the
// invocation produced (one per non-empty body, in ordinal order) plus the
// advisory diagnostics, carried through untouched.
type Result struct {
	Templates   []*template.Template
	Diagnostics []template.Diagnostic
}

// Compile decodes an artifact and produces its result. A hard parse error
// aborts the whole invocation; diagnostics never do.
func Compile(data []byte) (*Result, error) {
	cb, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Templates:   cb.Templates(),
		Diagnostics: cb.Diagnostics(),
	}, nil
}

// wireTemplate is the descriptor wire form consumed by the rendering runtime
// and the codegen layer. Paths travel as number arrays rather than raw byte
// strings so the output stays readable and diffable.
type wireTemplate struct {
	ID        string         `json:"id"`
	Roots     []wireSkeleton `json:"roots"`
	NodePaths [][]int        `json:"nodePaths"`
	AttrPaths [][]int        `json:"attrPaths"`
	Key       string         `json:"key,omitempty"`
}

type wireSkeleton struct {
	Kind     string             `json:"kind"`
	Tag      string             `json:"tag,omitempty"`
	Attrs    []wireSkeletonAttr `json:"attrs,omitempty"`
	Children []wireSkeleton     `json:"children,omitempty"`
	Text     string             `json:"text,omitempty"`
	ID       *int               `json:"id,omitempty"`
}

type wireSkeletonAttr struct {
	Static bool   `json:"static,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
	ID     *int   `json:"id,omitempty"`
}

type wireDiagnostic struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type wireResult struct {
	Templates   []wireTemplate   `json:"templates"`
	Diagnostics []wireDiagnostic `json:"diagnostics,omitempty"`
}

// EncodeResult renders a compile result as indented JSON.
func EncodeResult(res *Result) ([]byte, error) {
	out := wireResult{
		Templates: make([]wireTemplate, len(res.Templates)),
	}
	for i, tpl := range res.Templates {
		out.Templates[i] = encodeTemplate(tpl)
	}
	for _, diag := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, wireDiagnostic{
			File:     diag.Loc.File,
			Line:     diag.Loc.Line,
			Col:      diag.Loc.Col,
			Severity: diag.Severity.String(),
			Message:  diag.Message,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// EncodeTemplate renders a single descriptor as JSON, the form pushed over
// the hot-reload channel.
func EncodeTemplate(tpl *template.Template) ([]byte, error) {
	return json.Marshal(encodeTemplate(tpl))
}

func encodeTemplate(tpl *template.Template) wireTemplate {
	out := wireTemplate{
		ID:        tpl.ID.String(),
		Roots:     make([]wireSkeleton, len(tpl.Roots)),
		NodePaths: make([][]int, len(tpl.NodePaths)),
		AttrPaths: make([][]int, len(tpl.AttrPaths)),
	}
	for i, root := range tpl.Roots {
		out.Roots[i] = encodeSkeleton(root)
	}
	for i, path := range tpl.NodePaths {
		out.NodePaths[i] = encodePath(path)
	}
	for i, path := range tpl.AttrPaths {
		out.AttrPaths[i] = encodePath(path)
	}
	if tpl.Key != nil {
		out.Key = tpl.Key.String()
	}
	return out
}

func encodePath(path []byte) []int {
	out := make([]int, len(path))
	for i, b := range path {
		out[i] = int(b)
	}
	return out
}

func encodeSkeleton(node template.TemplateNode) wireSkeleton {
	switch node.Kind {
	case template.TemplateElement:
		out := wireSkeleton{Kind: "element", Tag: node.Tag}
		for i := range node.Attrs {
			out.Attrs = append(out.Attrs, encodeSkeletonAttr(node.Attrs[i]))
		}
		for _, child := range node.Children {
			out.Children = append(out.Children, encodeSkeleton(child))
		}
		return out

	case template.TemplateText:
		return wireSkeleton{Kind: "text", Text: node.Text}

	case template.TemplateDynamicText:
		id := node.ID
		return wireSkeleton{Kind: "dynamicText", ID: &id}

	default:
		id := node.ID
		return wireSkeleton{Kind: "dynamic", ID: &id}
	}
}

func encodeSkeletonAttr(attr template.TemplateAttribute) wireSkeletonAttr {
	if attr.Static {
		return wireSkeletonAttr{Static: true, Name: attr.Name, Value: attr.Value}
	}
	id := attr.ID
	return wireSkeletonAttr{Name: attr.Name, ID: &id}
}
