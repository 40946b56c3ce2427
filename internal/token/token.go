package token

// Type identifies the lexical class of a token.
type Type string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	NUMBER   = "NUMBER"   // 42, 3.14, 1_000
	IDENT    = "IDENT"    // variable names, unit words, keywords
	DATE     = "DATE"     // 2024-01-15
	CURRENCY = "CURRENCY" // $, €, £

	PLUS    = "+"
	MINUS   = "-"
	STAR    = "*"
	SLASH   = "/"
	CARET   = "^"
	PERCENT = "%"

	ASSIGN = "="
	ARROW  = "=>"
	DOTDOT = ".."
	COMMA  = ","
	LPAREN = "("
	RPAREN = ")"

	COMMENT = "COMMENT" // # ... or // ...
)

// Token is a single lexeme with its position in the source line.
type Token struct {
	Type   Type
	Lexeme string
	Pos    int // byte offset in the line
	Line   int // 1-based document line number
}

// Keywords recognized by the statement parser. They lex as IDENT and are
// promoted contextually, so "in" can still be an inch unit inside an
// arithmetic expression.
var Keywords = map[string]bool{
	"solve": true,
	"in":    true,
	"to":    true,
	"where": true,
	"of":    true,
	"on":    true,
	"off":   true,
	"as":    true,
	"is":    true,
	"what":  true,
}

// IsKeyword reports whether the lexeme is a statement keyword.
func IsKeyword(lexeme string) bool {
	return Keywords[lexeme]
}
