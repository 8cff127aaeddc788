package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"hscript/internal/ast"
	"hscript/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// FormatProgramTree draws p as a top-down ASCII tree.
func FormatProgramTree(w io.Writer, p *ast.Program, fs *source.FileSet) error {
	block := renderTree(buildProgramTreeNode(p, fs))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// buildProgramTreeNode labels the root with the file path (when fs knows it) and the program span.
func buildProgramTreeNode(p *ast.Program, fs *source.FileSet) *treeNode {
	if p == nil {
		return &treeNode{label: "Program: <nil>"}
	}
	header := "Program"
	if fs != nil {
		if f := fs.Get(p.Span.File); f != nil {
			header = f.FormatPath("auto", fs.BaseDir())
		}
	}
	root := &treeNode{label: fmt.Sprintf("%s (span: %s)", header, formatSpan(p.Span, fs))}
	for _, d := range p.Decls {
		root.children = append(root.children, buildDeclTreeNode(d, fs))
	}
	return root
}

func buildDeclTreeNode(d ast.Decl, fs *source.FileSet) *treeNode {
	switch d := d.(type) {
	case *ast.Tag:
		return buildTagTreeNode(d, fs)
	case *ast.Command:
		node := &treeNode{label: fmt.Sprintf("#%s (span: %s)", d.Name, formatSpan(d.Span, fs))}
		switch d.Kind {
		case ast.ArgString:
			node.children = append(node.children, &treeNode{label: strconv.QuoteToASCII(d.Arg.Content)})
		case ast.ArgExpr:
			node.children = append(node.children, buildExprTreeNode(d.Cond))
		}
		return node
	}
	return &treeNode{label: "<unknown decl>"}
}

func buildTagTreeNode(t *ast.Tag, fs *source.FileSet) *treeNode {
	label := "<" + t.Name + ">"
	switch t.Closing {
	case ast.ClosingInline:
		label = "<" + t.Name + "/>"
	case ast.ClosingImplicit:
		label += " implicit"
	}
	node := &treeNode{label: fmt.Sprintf("%s (span: %s)", label, formatSpan(t.Span, fs))}
	for _, a := range t.Attributes {
		entry := "@" + a.Name
		if a.HasValue {
			entry += "=" + strconv.QuoteToASCII(a.Value)
		}
		node.children = append(node.children, &treeNode{label: entry})
	}
	for _, c := range t.Children {
		switch c := c.(type) {
		case *ast.Tag:
			node.children = append(node.children, buildTagTreeNode(c, fs))
		case ast.Text:
			node.children = append(node.children, &treeNode{label: "Text " + strconv.QuoteToASCII(c.Value)})
		}
	}
	return node
}

func buildExprTreeNode(e ast.Expr) *treeNode {
	binary := func(op string, l, r ast.Expr) *treeNode {
		return &treeNode{label: op, children: []*treeNode{buildExprTreeNode(l), buildExprTreeNode(r)}}
	}
	switch e := e.(type) {
	case *ast.Equality:
		return binary(e.Op.String(), e.Left, e.Right)
	case *ast.Factor:
		return binary(e.Op.String(), e.Left, e.Right)
	case *ast.Term:
		return binary(e.Op.String(), e.Left, e.Right)
	case *ast.Unary:
		return &treeNode{label: e.Op.String(), children: []*treeNode{buildExprTreeNode(e.X)}}
	case *ast.Primary:
		switch v := e.Value.(type) {
		case *ast.Ident:
			return &treeNode{label: v.Name}
		case *ast.StrLit:
			return &treeNode{label: strconv.QuoteToASCII(v.Content)}
		}
	}
	return &treeNode{label: "<invalid>"}
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art representation.
//
// The returned treeBlock.lines is a slice of strings representing the rendered lines of
// the node and its descendants arranged as a tree with connector characters. The block's
// width is the horizontal extent of the rendered lines and root is the column index of
// the root node's vertical connector within those lines.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := len(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		if len(childBlocks[i].lines) > maxChildHeight {
			maxChildHeight = len(childBlocks[i].lines)
		}
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
		rootPos = labelWidth / 2
	} else {
		rootPos += shift
	}

	width := totalWidth
	rootLine := label
	if shift > 0 {
		rootLine = strings.Repeat(" ", shift) + label
	}
	if len(rootLine) < width {
		rootLine += strings.Repeat(" ", width-len(rootLine))
	} else if len(rootLine) > width {
		width = len(rootLine)
		for i := range positions {
			if positions[i] >= width {
				width = positions[i] + 1
			}
		}
		if len(rootLine) < width {
			rootLine += strings.Repeat(" ", width-len(rootLine))
		}
	}

	connector := make([]byte, width)
	for i := range connector {
		connector[i] = ' '
	}
	if rootPos >= width {
		needed := rootPos - width + 1
		rootLine += strings.Repeat(" ", needed)
		connector = append(connector, make([]byte, needed)...)
		for i := width; i < len(connector); i++ {
			connector[i] = ' '
		}
		width = len(connector)
	}
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}
	connectorLine := string(connector)

	childLines := make([]string, maxChildHeight)
	for row := range maxChildHeight {
		var sb strings.Builder
		if childPrefix > 0 {
			sb.WriteString(strings.Repeat(" ", childPrefix))
		}
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			if len(line) < block.width {
				line += strings.Repeat(" ", block.width-len(line))
			}
			sb.WriteString(line)
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		rowStr := sb.String()
		if len(rowStr) < width {
			rowStr += strings.Repeat(" ", width-len(rowStr))
		}
		childLines[row] = rowStr
	}

	lines := make([]string, 0, 2+len(childLines))
	lines = append(lines, rootLine, connectorLine)
	lines = append(lines, childLines...)

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}
