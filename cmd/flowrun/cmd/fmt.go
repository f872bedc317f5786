package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowscript/flowscript/internal/parser"
	"github.com/flowscript/flowscript/pkg/printer"
)

var (
	fmtWrite bool
	fmtList  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format FlowScript source files",
	Long: `Format FlowScript source files: parse each into a record and
pretty-print it back with consistent indentation.

With no file arguments, reads from stdin and writes to stdout.

Examples:
  flowrun fmt pipeline.flow            # print formatted source to stdout
  flowrun fmt -w pipeline.flow         # rewrite the file in place
  flowrun fmt -l *.flow                # list files that would change`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to (source) file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting differs, without printing them")
}

func runFmt(_ *cobra.Command, args []string) error {
	if fmtWrite && fmtList {
		return fmt.Errorf("cannot use -w and -l together")
	}

	if len(args) == 0 {
		return formatStdin()
	}

	hasErrors := false
	for _, path := range args {
		if err := formatFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func formatStdin() error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	formatted, err := formatSource(string(src))
	if err != nil {
		return err
	}
	fmt.Print(formatted)
	return nil
}

func formatFile(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	formatted, err := formatSource(string(src))
	if err != nil {
		return err
	}
	changed := !bytes.Equal(src, []byte(formatted))

	switch {
	case fmtList:
		if changed {
			fmt.Println(filename)
		}
	case fmtWrite:
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0o644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
			if verbose {
				fmt.Printf("formatted %s\n", filename)
			}
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}

func formatSource(source string) (string, error) {
	root, errs := parser.Parse(source)
	if len(errs) > 0 {
		msg := "parse errors:\n"
		for _, d := range errs {
			msg += "  " + d.Error() + "\n"
		}
		return "", fmt.Errorf("%s", msg)
	}
	return printer.New(printer.DefaultOptions()).Print(root), nil
}
