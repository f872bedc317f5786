// Package printer pretty-prints a parsed FlowScript record back to
// indented source, the way internal/ast's String() methods render it
// compactly on one line.
package printer

import (
	"fmt"
	"strings"

	"github.com/flowscript/flowscript/internal/ast"
)

// Options configures indentation. IndentWidth is the number of
// columns (or tabs, if UseSpaces is false) per nesting level.
type Options struct {
	IndentWidth int
	UseSpaces   bool
}

// DefaultOptions is two spaces per indentation level.
func DefaultOptions() Options {
	return Options{IndentWidth: 2, UseSpaces: true}
}

// Printer formats a *ast.Dict (and the node kinds that can appear inside
// one) back into readable, indented source.
type Printer struct {
	opts Options
}

// New creates a Printer with the given options.
func New(opts Options) *Printer {
	return &Printer{opts: opts}
}

// Print renders root as formatted source, ending in a trailing newline.
func (p *Printer) Print(root *ast.Dict) string {
	var sb strings.Builder
	p.printDict(&sb, root, 0)
	sb.WriteString("\n")
	return sb.String()
}

func (p *Printer) indent(level int) string {
	unit := "\t"
	if p.opts.UseSpaces {
		unit = strings.Repeat(" ", p.opts.IndentWidth)
	}
	return strings.Repeat(unit, level)
}

func (p *Printer) printDict(sb *strings.Builder, d *ast.Dict, level int) {
	if len(d.Items) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{\n")
	for _, it := range d.Items {
		sb.WriteString(p.indent(level + 1))
		p.printNode(sb, it, level+1)
		sb.WriteString(";\n")
	}
	sb.WriteString(p.indent(level))
	sb.WriteString("}")
}

func (p *Printer) printNode(sb *strings.Builder, n ast.Node, level int) {
	switch v := n.(type) {
	case *ast.Pair:
		sb.WriteString(v.Key.String())
		sb.WriteString(": ")
		p.printValue(sb, v.Value, level)
	case *ast.Declaration:
		sb.WriteString(v.Target.String())
		sb.WriteString(" := ")
		p.printValue(sb, v.Value, level)
	case *ast.Dict:
		p.printDict(sb, v, level)
	default:
		sb.WriteString(n.String())
	}
}

func (p *Printer) printValue(sb *strings.Builder, n ast.Node, level int) {
	switch v := n.(type) {
	case *ast.Dict:
		p.printDict(sb, v, level)
	case *ast.FunctionLit:
		sb.WriteString(fmt.Sprintf("(%s), ", paramList(v.Params)))
		p.printDict(sb, v.Body, level)
		sb.WriteString(fmt.Sprintf(", (%s)", paramList(v.Returns)))
	default:
		sb.WriteString(n.String())
	}
}

func paramList(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, pr := range params {
		if pr.Type != "" {
			parts[i] = pr.Type + ":" + pr.Name
		} else {
			parts[i] = pr.Name
		}
	}
	return strings.Join(parts, ", ")
}
