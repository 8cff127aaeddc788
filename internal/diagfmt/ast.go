package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"hscript/internal/ast"
	"hscript/internal/source"
)

// SpanOutput is a byte range in serialized AST output.
type SpanOutput struct {
	Start uint32 `json:"start" yaml:"start"`
	End   uint32 `json:"end" yaml:"end"`
}

// AttrOutput is one attribute of a serialized tag.
type AttrOutput struct {
	Name  string  `json:"name" yaml:"name"`
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

// ASTNodeOutput is the serialized form of an AST node for --format json/yaml.
type ASTNodeOutput struct {
	Type       string          `json:"type" yaml:"type"`
	Name       string          `json:"name,omitempty" yaml:"name,omitempty"`
	Op         string          `json:"op,omitempty" yaml:"op,omitempty"`
	Closing    string          `json:"closing,omitempty" yaml:"closing,omitempty"`
	Arg        string          `json:"arg,omitempty" yaml:"arg,omitempty"`
	Value      *string         `json:"value,omitempty" yaml:"value,omitempty"`
	Attributes []AttrOutput    `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Span       SpanOutput      `json:"span" yaml:"span"`
	Children   []ASTNodeOutput `json:"children,omitempty" yaml:"children,omitempty"`
}

func spanOut(sp source.Span) SpanOutput { return SpanOutput{Start: sp.Start, End: sp.End} }

// ProgramOutput converts p into its serializable tree.
func ProgramOutput(p *ast.Program) ASTNodeOutput {
	out := ASTNodeOutput{Type: "Program"}
	if p == nil {
		return out
	}
	out.Span = spanOut(p.Span)
	for _, d := range p.Decls {
		out.Children = append(out.Children, declOutput(d))
	}
	return out
}

func declOutput(d ast.Decl) ASTNodeOutput {
	switch d := d.(type) {
	case *ast.Tag:
		return tagOutput(d)
	case *ast.Command:
		out := ASTNodeOutput{Type: "Command", Name: d.Name, Arg: d.Kind.String(), Span: spanOut(d.Span)}
		switch d.Kind {
		case ast.ArgString:
			out.Children = []ASTNodeOutput{strOutput(&d.Arg)}
		case ast.ArgExpr:
			out.Children = []ASTNodeOutput{ExprOutput(d.Cond)}
		}
		return out
	}
	return ASTNodeOutput{Type: fmt.Sprintf("%T", d)}
}

func tagOutput(t *ast.Tag) ASTNodeOutput {
	out := ASTNodeOutput{Type: "Tag", Name: t.Name, Closing: t.Closing.String(), Span: spanOut(t.Span)}
	for _, a := range t.Attributes {
		ao := AttrOutput{Name: a.Name}
		if a.HasValue {
			v := a.Value
			ao.Value = &v
		}
		out.Attributes = append(out.Attributes, ao)
	}
	for _, c := range t.Children {
		switch c := c.(type) {
		case *ast.Tag:
			out.Children = append(out.Children, tagOutput(c))
		case ast.Text:
			v := c.Value
			out.Children = append(out.Children, ASTNodeOutput{Type: "Text", Value: &v, Span: spanOut(c.Span)})
		}
	}
	return out
}

func strOutput(s *ast.StrLit) ASTNodeOutput {
	v := s.Content
	return ASTNodeOutput{Type: "StrLit", Value: &v, Span: spanOut(s.Span)}
}

// ExprOutput converts an expression tree into its serializable form.
func ExprOutput(e ast.Expr) ASTNodeOutput {
	switch e := e.(type) {
	case *ast.Equality:
		return binaryOutput("Equality", e.Op.String(), e.Left, e.Right, e.Span)
	case *ast.Factor:
		return binaryOutput("Factor", e.Op.String(), e.Left, e.Right, e.Span)
	case *ast.Term:
		return binaryOutput("Term", e.Op.String(), e.Left, e.Right, e.Span)
	case *ast.Unary:
		return ASTNodeOutput{Type: "Unary", Op: e.Op.String(), Span: spanOut(e.Span), Children: []ASTNodeOutput{ExprOutput(e.X)}}
	case *ast.Primary:
		switch v := e.Value.(type) {
		case *ast.Ident:
			return ASTNodeOutput{Type: "Ident", Name: v.Name, Span: spanOut(v.Span)}
		case *ast.StrLit:
			return strOutput(v)
		}
	}
	return ASTNodeOutput{Type: "Invalid"}
}

func binaryOutput(kind, op string, l, r ast.Expr, sp source.Span) ASTNodeOutput {
	return ASTNodeOutput{Type: kind, Op: op, Span: spanOut(sp), Children: []ASTNodeOutput{ExprOutput(l), ExprOutput(r)}}
}

// FormatProgramJSON writes p as indented JSON.
func FormatProgramJSON(w io.Writer, p *ast.Program) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ProgramOutput(p))
}

// FormatProgramYAML writes p as YAML.
func FormatProgramYAML(w io.Writer, p *ast.Program) error {
	data, err := yaml.MarshalWithOptions(ProgramOutput(p), yaml.Indent(2))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// FormatProgramPretty prints p as an indented outline with box-drawing guides.
func FormatProgramPretty(w io.Writer, p *ast.Program, fs *source.FileSet) error {
	root := buildProgramTreeNode(p, fs)
	if _, err := fmt.Fprintln(w, root.label); err != nil {
		return err
	}
	for i, child := range root.children {
		if err := writePrettyNode(w, child, "", i == len(root.children)-1); err != nil {
			return err
		}
	}
	return nil
}

func writePrettyNode(w io.Writer, n *treeNode, prefix string, last bool) error {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, n.label); err != nil {
		return err
	}
	for i, child := range n.children {
		if err := writePrettyNode(w, child, prefix+next, i == len(n.children)-1); err != nil {
			return err
		}
	}
	return nil
}
