package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/parser"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse FlowScript source and display its record (AST)",
	Long: `Parse FlowScript source and print the resulting top-level
record. Reads from a file argument, or from stdin if none is given.

Use --dump-ast to show the tagged node tree instead of the compact
source-like rendering.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full tagged node tree")
}

func runParse(_ *cobra.Command, args []string) error {
	source, filename, err := readParseInput(args)
	if err != nil {
		return err
	}

	root, errs := parser.Parse(source)
	if len(errs) > 0 {
		for _, d := range errs {
			fmt.Fprintln(os.Stderr, d.Format(source, filename, true))
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpAST {
		fmt.Println("record:")
		dumpNode(os.Stdout, root, 0)
	} else {
		fmt.Println(root.String())
	}
	return nil
}

func readParseInput(args []string) (source, filename string, err error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), "<stdin>", nil
}

// dumpNode writes a tagged tree dump of node to w, one line per node,
// indented two spaces per nesting level.
func dumpNode(w io.Writer, node ast.Node, indent int) {
	pad := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Dict:
		fmt.Fprintf(w, "%sDict (%d items)\n", pad, len(n.Items))
		for _, it := range n.Items {
			dumpNode(w, it, indent+1)
		}
	case *ast.Pair:
		fmt.Fprintf(w, "%sPair key=%s\n", pad, n.Key)
		dumpNode(w, n.Value, indent+1)
	case *ast.Declaration:
		fmt.Fprintf(w, "%sDeclaration %s\n", pad, n.Target)
		dumpNode(w, n.Value, indent+1)
	case *ast.List:
		fmt.Fprintf(w, "%sList (%d items)\n", pad, len(n.Items))
		for _, it := range n.Items {
			dumpNode(w, it, indent+1)
		}
	case *ast.Tuple:
		fmt.Fprintf(w, "%sTuple (%d items)\n", pad, len(n.Items))
		for _, it := range n.Items {
			dumpNode(w, it, indent+1)
		}
	case *ast.Call:
		fmt.Fprintf(w, "%sCall\n", pad)
		fmt.Fprintf(w, "%s  callee:\n", pad)
		dumpNode(w, n.Callee, indent+2)
		for _, a := range n.Args {
			if a.Name != "" {
				fmt.Fprintf(w, "%s  arg %s:\n", pad, a.Name)
			} else {
				fmt.Fprintf(w, "%s  arg:\n", pad)
			}
			dumpNode(w, a.Value, indent+2)
		}
	case *ast.BinOp:
		fmt.Fprintf(w, "%sBinOp %s\n", pad, n.Op)
		dumpNode(w, n.Left, indent+1)
		dumpNode(w, n.Right, indent+1)
	case *ast.UnaryOp:
		fmt.Fprintf(w, "%sUnaryOp %s\n", pad, n.Op)
		dumpNode(w, n.Operand, indent+1)
	case *ast.Pipe:
		fmt.Fprintf(w, "%sPipe (%d stages)\n", pad, len(n.Stages))
		for _, st := range n.Stages {
			dumpNode(w, st, indent+1)
		}
	case *ast.FunctionLit:
		fmt.Fprintf(w, "%sFunctionLit params=%v returns=%v\n", pad, n.Params, n.Returns)
		dumpNode(w, n.Body, indent+1)
	case *ast.Number:
		fmt.Fprintf(w, "%sNumber %s\n", pad, n.String())
	case *ast.String:
		fmt.Fprintf(w, "%sString %q\n", pad, n.Value)
	case *ast.Bool:
		fmt.Fprintf(w, "%sBool %v\n", pad, n.Value)
	case *ast.Any:
		fmt.Fprintf(w, "%sAny\n", pad)
	case *ast.Var:
		fmt.Fprintf(w, "%sVar %s\n", pad, n.Name)
	case *ast.TypedVar:
		fmt.Fprintf(w, "%sTypedVar %s:%s\n", pad, n.Type, n.Name)
	default:
		fmt.Fprintf(w, "%s%T: %s\n", pad, node, node)
	}
}
