package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nmaxcom/smartpad/internal/token"
)

// Lexer scans a single notebook line into tokens.
type Lexer struct {
	input string
	pos   int // current byte offset
	line  int
}

func New(input string, line int) *Lexer {
	return &Lexer{input: input, line: line}
}

// Tokenize scans the whole line. The returned slice always ends with EOF.
func Tokenize(input string, line int) []token.Token {
	l := New(input, line)
	var out []token.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func (l *Lexer) Next() token.Token {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, Pos: l.pos, Line: l.line}
	}

	start := l.pos
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	// Comments run to end of line.
	if r == '#' || strings.HasPrefix(l.input[l.pos:], "//") {
		lexeme := l.input[l.pos:]
		l.pos = len(l.input)
		return token.Token{Type: token.COMMENT, Lexeme: lexeme, Pos: start, Line: l.line}
	}

	switch r {
	case '+':
		l.pos++
		return l.at(token.PLUS, "+", start)
	case '-':
		l.pos++
		return l.at(token.MINUS, "-", start)
	case '*':
		l.pos++
		return l.at(token.STAR, "*", start)
	case '/':
		l.pos++
		return l.at(token.SLASH, "/", start)
	case '^':
		l.pos++
		return l.at(token.CARET, "^", start)
	case '%':
		l.pos++
		return l.at(token.PERCENT, "%", start)
	case ',':
		l.pos++
		return l.at(token.COMMA, ",", start)
	case '(':
		l.pos++
		return l.at(token.LPAREN, "(", start)
	case ')':
		l.pos++
		return l.at(token.RPAREN, ")", start)
	case '=':
		if strings.HasPrefix(l.input[l.pos:], "=>") {
			l.pos += 2
			return l.at(token.ARROW, "=>", start)
		}
		l.pos++
		return l.at(token.ASSIGN, "=", start)
	case '.':
		if strings.HasPrefix(l.input[l.pos:], "..") {
			l.pos += 2
			return l.at(token.DOTDOT, "..", start)
		}
		if l.pos+1 < len(l.input) && isDigit(rune(l.input[l.pos+1])) {
			return l.readNumber()
		}
		l.pos++
		return l.at(token.ILLEGAL, ".", start)
	case '$', '€', '£', '¥':
		l.pos += size
		return l.at(token.CURRENCY, string(r), start)
	}

	if isDigit(r) {
		if tok, ok := l.readDate(); ok {
			return tok
		}
		return l.readNumber()
	}
	if isIdentStart(r) {
		return l.readIdent()
	}

	l.pos += size
	return l.at(token.ILLEGAL, string(r), start)
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// readDate recognizes ISO dates (2024-01-15) before number scanning would
// split them on '-'.
func (l *Lexer) readDate() (token.Token, bool) {
	rest := l.input[l.pos:]
	if len(rest) < 10 {
		return token.Token{}, false
	}
	for i, r := range rest[:10] {
		switch i {
		case 4, 7:
			if r != '-' {
				return token.Token{}, false
			}
		default:
			if !isDigit(r) {
				return token.Token{}, false
			}
		}
	}
	// Reject when more digits follow (e.g. 2024-01-155).
	if len(rest) > 10 && isDigit(rune(rest[10])) {
		return token.Token{}, false
	}
	start := l.pos
	l.pos += 10
	return token.Token{Type: token.DATE, Lexeme: rest[:10], Pos: start, Line: l.line}, true
}

func (l *Lexer) readNumber() token.Token {
	start := l.pos
	seenDot := false
	for l.pos < len(l.input) {
		c := rune(l.input[l.pos])
		if isDigit(c) || c == '_' {
			l.pos++
			continue
		}
		if c == '.' && !seenDot && !strings.HasPrefix(l.input[l.pos:], "..") {
			seenDot = true
			l.pos++
			continue
		}
		// Scientific notation: 1.5e3, 2E-7.
		if (c == 'e' || c == 'E') && l.pos+1 < len(l.input) {
			next := l.input[l.pos+1]
			if isDigit(rune(next)) {
				l.pos += 2
				continue
			}
			if (next == '+' || next == '-') && l.pos+2 < len(l.input) && isDigit(rune(l.input[l.pos+2])) {
				l.pos += 3
				continue
			}
		}
		break
	}
	lexeme := strings.ReplaceAll(l.input[start:l.pos], "_", "")
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Pos: start, Line: l.line}
}

func (l *Lexer) readIdent() token.Token {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	return token.Token{Type: token.IDENT, Lexeme: l.input[start:l.pos], Pos: start, Line: l.line}
}

func (l *Lexer) at(t token.Type, lexeme string, pos int) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Pos: pos, Line: l.line}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
