package lexer

import (
	"testing"

	"github.com/flowscript/flowscript/internal/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestBasicTokens(t *testing.T) {
	toks := collect(`int:x := 5 + 10 |> plus10;`)
	want := []token.Kind{
		token.IDENT, token.COLON, token.IDENT, token.ASSIGN,
		token.NUMBER, token.PLUS, token.NUMBER, token.PIPE, token.IDENT,
		token.SEMICOLON, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestStringsAndComments(t *testing.T) {
	toks := collect("str:s := 'hi' # a comment\n; str:t := \"world\";")
	if toks[0].Kind != token.IDENT || toks[2].Kind != token.IDENT {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
	var strs []string
	for _, tk := range toks {
		if tk.Kind == token.STRING {
			strs = append(strs, tk.Lit)
		}
	}
	if len(strs) != 2 || strs[0] != "hi" || strs[1] != "world" {
		t.Fatalf("unexpected strings: %v", strs)
	}
}

func TestWildcardAndDotted(t *testing.T) {
	toks := collect(`(*, *, 15, *, *) : log("tick"); service.config.timeout`)
	foundStar := false
	foundDotted := false
	for _, tk := range toks {
		if tk.Kind == token.STAR {
			foundStar = true
		}
		if tk.Kind == token.IDENT && tk.Lit == "service.config.timeout" {
			foundDotted = true
		}
	}
	if !foundStar || !foundDotted {
		t.Fatalf("expected wildcard and dotted identifier, got %+v", toks)
	}
}

func TestNeverPanicsOnArbitraryBytes(t *testing.T) {
	inputs := []string{
		"", "\x00\x01\x02", "{{{{", "\"unterminated", "'unterminated",
		"1.2.3", "|><|>", string([]byte{0xff, 0xfe}),
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("lexer panicked on %q: %v", in, r)
				}
			}()
			toks := collect(in)
			if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
				t.Errorf("lexer did not terminate with EOF for %q", in)
			}
		}()
	}
}

func TestPipeVsBarVsAmp(t *testing.T) {
	toks := collect(`a | b & c |> d`)
	kinds := []token.Kind{token.IDENT, token.BAR, token.IDENT, token.AMP, token.IDENT, token.PIPE, token.IDENT, token.EOF}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v want %v", i, toks[i].Kind, k)
		}
	}
}
