// Package artifact is the toolchain-facing codec for the template compiler.
// The external grammar layer writes parse artifacts: JSON node trees with
// source spans. Decoding an artifact constructs real template nodes through
// the normalizing constructors, so attribute merging, component validation
// and body indexing run exactly once, and encoding turns the compiled
// descriptors and diagnostics back into JSON for the build tool and the
// rendering runtime.
package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/loom-ui/loom/pkg/template"
)

// Artifact is the top-level wire form of one parsed template invocation.
type Artifact struct {
	File  string     `json:"file"`
	Line  int        `json:"line"`
	Col   int        `json:"col"`
	Roots []wireNode `json:"roots"`
}

// wireNode is the wire form of one node. Kind selects which fields apply.
type wireNode struct {
	Kind string `json:"kind"`
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`

	// element
	Tag      string      `json:"tag,omitempty"`
	Custom   bool        `json:"custom,omitempty"`
	Key      *wireFormat `json:"key,omitempty"`
	Attrs    []wireAttr  `json:"attrs,omitempty"`
	Children []wireNode  `json:"children,omitempty"`

	// text
	Value *wireFormat `json:"value,omitempty"`

	// expr, for
	Expr string `json:"expr,omitempty"`

	// for
	Pat  string     `json:"pat,omitempty"`
	Body []wireNode `json:"body,omitempty"`

	// if
	Branches []wireBranch `json:"branches,omitempty"`
	Else     []wireNode   `json:"else,omitempty"`

	// component
	Path   []wireSegment `json:"path,omitempty"`
	Fields []wireAttr    `json:"fields,omitempty"`
}

type wireBranch struct {
	Cond string     `json:"cond"`
	Body []wireNode `json:"body"`
}

type wireSegment struct {
	Ident    string `json:"ident"`
	Generics string `json:"generics,omitempty"`
	Line     int    `json:"line,omitempty"`
	Col      int    `json:"col,omitempty"`
}

type wireAttr struct {
	Name   string    `json:"name,omitempty"`
	Custom bool      `json:"custom,omitempty"`
	Value  wireValue `json:"value"`
	Line   int       `json:"line,omitempty"`
	Col    int       `json:"col,omitempty"`
}

type wireValue struct {
	Kind      string      `json:"kind"`
	Format    *wireFormat `json:"format,omitempty"`
	Expr      string      `json:"expr,omitempty"`
	Shorthand string      `json:"shorthand,omitempty"`
	Line      int         `json:"line,omitempty"`
	Col       int         `json:"col,omitempty"`
}

type wireFormat struct {
	Segments []wireSegmentPart `json:"segments"`
	Line     int               `json:"line,omitempty"`
	Col      int               `json:"col,omitempty"`
}

type wireSegmentPart struct {
	Text string `json:"text,omitempty"`
	Expr string `json:"expr,omitempty"`
}

// decoder carries the artifact's file name so spans stay cheap on the wire.
type decoder struct {
	file string
}

// Decode parses an artifact and compiles it into an indexed call body.
// Malformed JSON and hard parse errors (duplicate event listeners, static
// element keys, out-of-range trees) abort with a located error; advisory
// problems land in the node diagnostics instead.
func Decode(data []byte) (*template.CallBody, error) {
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	if art.File == "" {
		return nil, fmt.Errorf("artifact is missing its source file")
	}

	d := &decoder{file: art.File}
	loc := template.Span{File: art.File, Line: art.Line, Col: art.Col}

	roots, err := d.nodes(art.Roots)
	if err != nil {
		return nil, err
	}

	return template.NewCallBody(loc, roots)
}

func (d *decoder) span(line, col int) template.Span {
	return template.Span{File: d.file, Line: line, Col: col}
}

func (d *decoder) nodes(wire []wireNode) ([]template.Node, error) {
	if len(wire) == 0 {
		return nil, nil
	}
	nodes := make([]template.Node, 0, len(wire))
	for i := range wire {
		node, err := d.node(&wire[i])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (d *decoder) node(w *wireNode) (template.Node, error) {
	loc := d.span(w.Line, w.Col)

	switch w.Kind {
	case "element":
		return d.element(w, loc)

	case "text":
		if w.Value == nil {
			return nil, loc.Errorf("text node is missing its value")
		}
		return &template.Text{Value: d.format(*w.Value), Loc: loc}, nil

	case "expr":
		return &template.ExprNode{Expr: w.Expr, Loc: loc}, nil

	case "for":
		body, err := d.body(w.Body)
		if err != nil {
			return nil, err
		}
		return &template.ForLoop{Pat: w.Pat, Expr: w.Expr, Body: body, Loc: loc}, nil

	case "if":
		return d.ifChain(w, loc)

	case "component":
		return d.component(w, loc)
	}

	return nil, loc.Errorf("unknown node kind %q", w.Kind)
}

func (d *decoder) element(w *wireNode, loc template.Span) (template.Node, error) {
	kind := template.TagCustom
	if !w.Custom && template.IsBuiltinTag(w.Tag) {
		kind = template.TagKnown
	}
	name := template.ElementName{Kind: kind, Name: w.Tag, Loc: loc}

	var key *template.FormatString
	if w.Key != nil {
		f := d.format(*w.Key)
		key = &f
	}

	attrs := d.attrs(w.Attrs)

	kids, err := d.nodes(w.Children)
	if err != nil {
		return nil, err
	}

	return template.NewElement(name, key, attrs, kids, loc)
}

func (d *decoder) ifChain(w *wireNode, loc template.Span) (template.Node, error) {
	branches := make([]template.IfBranch, 0, len(w.Branches))
	for _, br := range w.Branches {
		body, err := d.body(br.Body)
		if err != nil {
			return nil, err
		}
		branches = append(branches, template.IfBranch{Cond: br.Cond, Body: body})
	}

	var elseBody *template.TemplateBody
	if w.Else != nil {
		body, err := d.body(w.Else)
		if err != nil {
			return nil, err
		}
		elseBody = body
	}

	return &template.IfChain{Branches: branches, Else: elseBody, Loc: loc}, nil
}

func (d *decoder) component(w *wireNode, loc template.Span) (template.Node, error) {
	path := make([]template.PathSegment, len(w.Path))
	for i, seg := range w.Path {
		path[i] = template.PathSegment{
			Ident:    seg.Ident,
			Generics: seg.Generics,
			Loc:      d.span(seg.Line, seg.Col),
		}
	}

	body, err := d.body(w.Children)
	if err != nil {
		return nil, err
	}

	return template.NewComponent(path, d.attrs(w.Fields), body, loc), nil
}

func (d *decoder) body(wire []wireNode) (*template.TemplateBody, error) {
	nodes, err := d.nodes(wire)
	if err != nil {
		return nil, err
	}
	return template.NewBody(nodes)
}

func (d *decoder) attrs(wire []wireAttr) []template.Attribute {
	if len(wire) == 0 {
		return nil
	}
	attrs := make([]template.Attribute, len(wire))
	for i, w := range wire {
		attrs[i] = d.attr(w)
	}
	return attrs
}

func (d *decoder) attr(w wireAttr) template.Attribute {
	value := d.value(w.Value)

	nameKind := template.NameKnown
	switch {
	case value.Kind == template.ValueSpread:
		nameKind = template.NameSpread
	case w.Custom:
		nameKind = template.NameCustom
	}

	return template.Attribute{
		Name:  template.AttributeName{Kind: nameKind, Name: w.Name, Loc: d.span(w.Line, w.Col)},
		Value: value,
	}
}

func (d *decoder) value(w wireValue) template.AttrValue {
	loc := d.span(w.Line, w.Col)

	switch w.Kind {
	case "format":
		var f template.FormatString
		if w.Format != nil {
			f = d.format(*w.Format)
		} else {
			f.Loc = loc
		}
		return template.AttrValue{Kind: template.ValueFormat, Format: f, Loc: loc}
	case "event":
		return template.AttrValue{Kind: template.ValueEvent, Expr: w.Expr, Loc: loc}
	case "shorthand":
		return template.AttrValue{Kind: template.ValueShorthand, Shorthand: w.Shorthand, Loc: loc}
	case "spread":
		return template.AttrValue{Kind: template.ValueSpread, Expr: w.Expr, Loc: loc}
	default:
		return template.AttrValue{Kind: template.ValueExpr, Expr: w.Expr, Loc: loc}
	}
}

func (d *decoder) format(w wireFormat) template.FormatString {
	segments := make([]template.Segment, len(w.Segments))
	for i, seg := range w.Segments {
		segments[i] = template.Segment{Text: seg.Text, Expr: seg.Expr}
	}
	return template.FormatString{
		Loc:      d.span(w.Line, w.Col),
		Segments: segments,
	}
}
