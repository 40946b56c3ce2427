package lexer

import (
	"testing"

	"github.com/nmaxcom/smartpad/internal/token"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		types []token.Type
	}{
		{"2 + 3", []token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}},
		{"x = 10", []token.Type{token.IDENT, token.ASSIGN, token.NUMBER, token.EOF}},
		{"b = a * 2 =>", []token.Type{token.IDENT, token.ASSIGN, token.IDENT, token.STAR, token.NUMBER, token.ARROW, token.EOF}},
		{"20% of 100", []token.Type{token.NUMBER, token.PERCENT, token.IDENT, token.NUMBER, token.EOF}},
		{"1..5", []token.Type{token.NUMBER, token.DOTDOT, token.NUMBER, token.EOF}},
		{"$100 + 20%", []token.Type{token.CURRENCY, token.NUMBER, token.PLUS, token.NUMBER, token.PERCENT, token.EOF}},
		{"# a comment", []token.Type{token.COMMENT, token.EOF}},
		{"// slashes too", []token.Type{token.COMMENT, token.EOF}},
		{"2024-01-15 + 3 days", []token.Type{token.DATE, token.PLUS, token.NUMBER, token.IDENT, token.EOF}},
		{"sqrt(x) ^ 2", []token.Type{token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.CARET, token.NUMBER, token.EOF}},
		{"solve x in x * 3 = 12", []token.Type{token.IDENT, token.IDENT, token.IDENT, token.IDENT, token.STAR, token.NUMBER, token.ASSIGN, token.NUMBER, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := Tokenize(tt.input, 1)
			if len(toks) != len(tt.types) {
				t.Fatalf("Tokenize(%q) produced %d tokens, want %d (%v)", tt.input, len(toks), len(tt.types), toks)
			}
			for i, want := range tt.types {
				if toks[i].Type != want {
					t.Errorf("Tokenize(%q)[%d] = %s, want %s", tt.input, i, toks[i].Type, want)
				}
			}
		})
	}
}

func TestTokenizeLexemes(t *testing.T) {
	tests := []struct {
		input string
		idx   int
		want  string
	}{
		{"1_000_000 + 1", 0, "1000000"},
		{"1.5e3 * 2", 0, "1.5e3"},
		{"2024-03-09", 0, "2024-03-09"},
		{"café = 3", 0, "café"},
		{".5 + 1", 0, ".5"},
	}
	for _, tt := range tests {
		toks := Tokenize(tt.input, 1)
		if got := toks[tt.idx].Lexeme; got != tt.want {
			t.Errorf("Tokenize(%q)[%d].Lexeme = %q, want %q", tt.input, tt.idx, got, tt.want)
		}
	}
}

func TestDateRejectsTrailingDigits(t *testing.T) {
	toks := Tokenize("2024-01-155", 1)
	if toks[0].Type == token.DATE {
		t.Fatalf("2024-01-155 lexed as DATE, want number/minus split")
	}
}
