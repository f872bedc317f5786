package cmd

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/parser"
)

// Golden-file coverage for the `parse --dump-ast` node dump, alongside
// pkg/printer's golden tests for the compact record rendering.
func TestDumpASTGolden(t *testing.T) {
	cases := map[string]string{
		"record_with_pipe": `{ out: a |> b(x: 1) }`,
		"record_with_decl": `{ Int:total := 1 + 2 }`,
	}

	for name, src := range cases {
		root, errs := parser.Parse(src)
		require.Empty(t, errs, name)

		var buf bytes.Buffer
		dumpNode(&buf, root, 0)
		snaps.MatchSnapshot(t, name, buf.String())
	}
}
