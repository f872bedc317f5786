package printer

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/parser"
)

// Golden-file regression coverage for the printer's record rendering.
func TestPrintGoldenRecords(t *testing.T) {
	cases := map[string]string{
		"pipe_and_call":  `{ result: input |> validate() |> transform(scale: 2) }`,
		"function_lit":   `{ double: (Int:x), { y: x * 2 }, (y) }`,
		"nested_records": `{ a: 1; outer: { b: 2; inner: { c: 3 } } }`,
	}

	for name, src := range cases {
		root, errs := parser.Parse(src)
		require.Empty(t, errs, name)
		out := New(DefaultOptions()).Print(root)
		snaps.MatchSnapshot(t, name, out)
	}
}
