package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/diagnostics"
	"github.com/nmaxcom/smartpad/internal/lexer"
	"github.com/nmaxcom/smartpad/internal/token"
	"github.com/nmaxcom/smartpad/internal/units"
	"github.com/nmaxcom/smartpad/internal/value"
)

// Operator binding powers. ^ binds tighter than * and /, which bind
// tighter than + and -; unary sign binds to the next value.
const (
	LOWEST  = iota
	RANGE   // ..
	SUM     // + -
	PRODUCT // * /
	OF      // of / on / off percentage phrases
	PREFIX  // -x +x
	POWER   // ^
)

var precedences = map[token.Type]int{
	token.DOTDOT: RANGE,
	token.PLUS:   SUM,
	token.MINUS:  SUM,
	token.STAR:   PRODUCT,
	token.SLASH:  PRODUCT,
	token.CARET:  POWER,
}

// Parser parses one notebook line into a typed statement node.
type Parser struct {
	raw  string
	line int
	toks []token.Token
	pos  int
}

// ParseLine turns a raw line into a statement. The returned error is
// non-nil only for lines that clearly intend structure (assignment,
// solve, display) but are malformed; anything else falls back to a
// plain-text statement.
func ParseLine(raw string, line int) (ast.Statement, *diagnostics.Error) {
	trimmed := strings.TrimSpace(raw)
	toks := lexer.Tokenize(raw, line)
	first := toks[0]

	if trimmed == "" {
		return &ast.TextStatement{Token: first, Raw: raw}, nil
	}
	if first.Type == token.COMMENT {
		return &ast.CommentStatement{Token: first, Raw: raw}, nil
	}

	p := &Parser{raw: raw, line: line, toks: toks}

	if first.Type == token.IDENT && first.Lexeme == "solve" && len(toks) > 2 {
		return p.parseSolve()
	}

	// Trailing => marks display.
	display := false
	if n := len(p.toks); n >= 3 && p.toks[n-2].Type == token.ARROW {
		display = true
		p.toks = append(p.toks[:n-2], p.toks[n-1])
	}

	if stmt, err, ok := p.tryFuncDef(display); ok {
		return stmt, err
	}
	if stmt, err, ok := p.tryAssignment(display); ok {
		return stmt, err
	}

	stmt, err := p.parseExpressionStatement(display)
	if err != nil {
		if display || strings.Contains(raw, "=") {
			return &ast.TextStatement{Token: first, Raw: raw}, err
		}
		// No structural markers: treat the line as plain text.
		return &ast.TextStatement{Token: first, Raw: raw}, nil
	}
	return stmt, nil
}

// ParseExpression parses a standalone expression: an equation side, a
// where clause value, or a user function body.
func ParseExpression(text string, line int) (ast.Expression, *diagnostics.Error) {
	p := &Parser{raw: text, line: line, toks: lexer.Tokenize(text, line)}
	return p.parseFullExpression()
}

// tryFuncDef matches `name(p1, p2) = body`.
func (p *Parser) tryFuncDef(display bool) (ast.Statement, *diagnostics.Error, bool) {
	t := p.toks
	if len(t) < 5 || t[0].Type != token.IDENT || t[1].Type != token.LPAREN {
		return nil, nil, false
	}
	if token.IsKeyword(t[0].Lexeme) {
		return nil, nil, false
	}
	i := 2
	var params []string
	for {
		if i >= len(t) {
			return nil, nil, false
		}
		if t[i].Type == token.RPAREN {
			i++
			break
		}
		if t[i].Type != token.IDENT {
			return nil, nil, false
		}
		params = append(params, t[i].Lexeme)
		i++
		if i < len(t) && t[i].Type == token.COMMA {
			i++
		}
	}
	if i >= len(t) || t[i].Type != token.ASSIGN || len(params) == 0 {
		return nil, nil, false
	}
	bodyStart := i + 1
	if bodyStart >= len(t) || t[bodyStart].Type == token.EOF {
		return nil, diagnostics.NewParseError("P012", p.line, "function %s has an empty body", t[0].Lexeme), true
	}
	body := strings.TrimSpace(p.sliceFrom(t[bodyStart].Pos))
	body = strings.TrimSuffix(strings.TrimSpace(body), "=>")
	return &ast.FuncDefStatement{
		Token:  t[0],
		Raw:    p.raw,
		Name:   t[0].Lexeme,
		Params: params,
		Body:   strings.TrimSpace(body),
	}, nil, true
}

// tryAssignment matches `name = expr` where the name is one or more
// plain identifiers (multi-word names collapse to single spaces).
func (p *Parser) tryAssignment(display bool) (ast.Statement, *diagnostics.Error, bool) {
	t := p.toks
	eq := -1
	for i, tok := range t {
		if tok.Type == token.ASSIGN {
			eq = i
			break
		}
		if tok.Type != token.IDENT || token.IsKeyword(tok.Lexeme) {
			return nil, nil, false
		}
	}
	if eq < 1 {
		return nil, nil, false
	}
	var words []string
	for _, tok := range t[:eq] {
		words = append(words, tok.Lexeme)
	}
	name := strings.Join(words, " ")

	if eq+1 >= len(t) || t[eq+1].Type == token.EOF {
		return nil, diagnostics.NewParseError("P010", p.line, "assignment to %q has no right-hand side", name), true
	}

	exprText := strings.TrimSpace(p.sliceFrom(t[eq+1].Pos))
	exprText = strings.TrimSpace(strings.TrimSuffix(exprText, "=>"))

	sub := &Parser{raw: p.raw, line: p.line, toks: append([]token.Token{}, t[eq+1:]...)}
	expr, err := sub.parseFullExpression()
	if err != nil {
		return nil, err, true
	}
	return &ast.AssignStatement{
		Token:    t[0],
		Raw:      p.raw,
		Name:     name,
		Expr:     expr,
		ExprText: exprText,
		Display:  display,
	}, nil, true
}

func (p *Parser) parseExpressionStatement(display bool) (ast.Statement, *diagnostics.Error) {
	expr, err := p.parseFullExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{
		Token:   p.toks[0],
		Raw:     p.raw,
		Expr:    expr,
		Display: display,
	}, nil
}

// parseFullExpression parses an expression plus its statement-level
// suffixes: `as %`, `A is what % of B`, and `to/in UNIT` conversion.
func (p *Parser) parseFullExpression() (ast.Expression, *diagnostics.Error) {
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.peekIs(token.IDENT, "as") && p.peekNextType() == token.PERCENT:
			tok := p.next() // as
			p.next()        // %
			expr = &ast.AsPercentExpression{Token: tok, Value: expr}
		case p.peekIs(token.IDENT, "is") && p.peekNextIs(token.IDENT, "what"):
			tok := p.next() // is
			p.next()        // what
			if p.cur().Type != token.PERCENT {
				return nil, diagnostics.NewParseError("P020", p.line, "expected %% after %q", "is what")
			}
			p.next() // %
			if !p.peekIs(token.IDENT, "of") {
				return nil, diagnostics.NewParseError("P020", p.line, "expected \"of\" in percentage question")
			}
			p.next() // of
			rhs, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			expr = &ast.WhatPercentExpression{Token: tok, A: expr, B: rhs}
		case p.peekConversion():
			kw := p.next().Lexeme
			target, err := p.parseConversionTarget()
			if err != nil {
				return nil, err
			}
			expr = &ast.ConversionExpression{Token: p.toks[0], Expr: expr, Target: target, Keyword: kw}
		default:
			if p.cur().Type != token.EOF {
				return nil, diagnostics.NewParseError("P001", p.line, "unexpected %q", p.cur().Lexeme)
			}
			return expr, nil
		}
	}
}

// peekConversion reports whether the upcoming tokens are a trailing
// conversion suffix: `to`/`in` followed by a unit or currency word.
func (p *Parser) peekConversion() bool {
	c := p.cur()
	if c.Type != token.IDENT || (c.Lexeme != "to" && c.Lexeme != "in") {
		return false
	}
	n := p.peekTok()
	if n.Type == token.CURRENCY {
		return true
	}
	if n.Type != token.IDENT {
		return false
	}
	return units.Lookup(n.Lexeme) != nil || value.IsCurrencyCode(n.Lexeme) || isCurrencyWord(n.Lexeme)
}

func isCurrencyWord(w string) bool {
	switch w {
	case "dollars", "dollar", "euros", "euro":
		return true
	}
	return false
}

// parseConversionTarget collects the unit/currency words after to/in.
func (p *Parser) parseConversionTarget() (string, *diagnostics.Error) {
	var b strings.Builder
	for {
		c := p.cur()
		switch c.Type {
		case token.IDENT, token.NUMBER, token.CURRENCY:
			b.WriteString(c.Lexeme)
		case token.SLASH, token.STAR, token.CARET:
			b.WriteString(c.Lexeme)
		default:
			target := b.String()
			if target == "" {
				return "", diagnostics.NewParseError("P021", p.line, "missing conversion target")
			}
			return target, nil
		}
		p.next()
	}
}

func (p *Parser) parseExpression(precedence int) (ast.Expression, *diagnostics.Error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		c := p.cur()
		var opPrec int
		var op string
		switch {
		case c.Type == token.IDENT && (c.Lexeme == "of" || c.Lexeme == "on" || c.Lexeme == "off"):
			opPrec, op = OF, c.Lexeme
		default:
			pr, ok := precedences[c.Type]
			if !ok {
				return left, nil
			}
			opPrec, op = pr, string(c.Type)
		}
		if opPrec <= precedence && !(c.Type == token.CARET && opPrec == precedence) {
			return left, nil
		}

		p.next()
		switch {
		case op == "of" || op == "on" || op == "off":
			right, err := p.parseExpression(OF)
			if err != nil {
				return nil, err
			}
			left = &ast.PercentApplication{Token: c, Percent: left, Op: op, Value: right}
		case c.Type == token.DOTDOT:
			right, err := p.parseExpression(RANGE)
			if err != nil {
				return nil, err
			}
			left = &ast.RangeExpression{Token: c, Start: left, End: right}
		case c.Type == token.CARET:
			// Right-associative.
			right, err := p.parseExpression(POWER - 1)
			if err != nil {
				return nil, err
			}
			left = &ast.InfixExpression{Token: c, Op: "^", Left: left, Right: right}
		default:
			right, err := p.parseExpression(opPrec)
			if err != nil {
				return nil, err
			}
			left = &ast.InfixExpression{Token: c, Op: op, Left: left, Right: right}
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, *diagnostics.Error) {
	c := p.cur()
	switch c.Type {
	case token.NUMBER:
		p.next()
		v, err := strconv.ParseFloat(c.Lexeme, 64)
		if err != nil {
			return nil, diagnostics.NewParseError("P002", p.line, "bad number %q", c.Lexeme)
		}
		// 20% -> percent literal
		if p.cur().Type == token.PERCENT {
			p.next()
			return &ast.PercentLiteral{Token: c, Val: v}, nil
		}
		// 100 USD -> currency literal
		if p.cur().Type == token.IDENT && value.IsCurrencyCode(p.cur().Lexeme) {
			code := p.next().Lexeme
			return &ast.CurrencyLiteral{Token: c, Amount: v, Code: code}, nil
		}
		num := &ast.NumberLiteral{Token: c, Val: v}
		return p.maybeUnit(num)

	case token.CURRENCY:
		p.next()
		code, _ := value.CodeForSymbol(c.Lexeme)
		if p.cur().Type != token.NUMBER {
			return nil, diagnostics.NewParseError("P003", p.line, "expected amount after %q", c.Lexeme)
		}
		amountTok := p.next()
		v, err := strconv.ParseFloat(amountTok.Lexeme, 64)
		if err != nil {
			return nil, diagnostics.NewParseError("P002", p.line, "bad number %q", amountTok.Lexeme)
		}
		return &ast.CurrencyLiteral{Token: c, Amount: v, Code: code}, nil

	case token.DATE:
		p.next()
		t, err := time.Parse("2006-01-02", c.Lexeme)
		if err != nil {
			return nil, diagnostics.NewParseError("P004", p.line, "bad date %q", c.Lexeme)
		}
		return &ast.DateLiteral{Token: c, Time: t}, nil

	case token.IDENT:
		if token.IsKeyword(c.Lexeme) {
			return nil, diagnostics.NewParseError("P005", p.line, "unexpected keyword %q", c.Lexeme)
		}
		p.next()
		if p.cur().Type == token.LPAREN {
			return p.parseCall(c)
		}
		return &ast.Identifier{Token: c, Name: c.Lexeme}, nil

	case token.MINUS, token.PLUS:
		p.next()
		right, err := p.parseExpression(PREFIX)
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpression{Token: c, Op: string(c.Type), Right: right}, nil

	case token.LPAREN:
		p.next()
		inner, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if p.cur().Type != token.RPAREN {
			return nil, diagnostics.NewParseError("P006", p.line, "missing closing parenthesis")
		}
		p.next()
		return p.maybeUnit(inner)
	}
	return nil, diagnostics.NewParseError("P007", p.line, "unexpected %q", c.Lexeme)
}

func (p *Parser) parseCall(name token.Token) (ast.Expression, *diagnostics.Error) {
	p.next() // (
	var args []ast.Expression
	if p.cur().Type != token.RPAREN {
		for {
			arg, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().Type != token.COMMA {
				break
			}
			p.next()
		}
	}
	if p.cur().Type != token.RPAREN {
		return nil, diagnostics.NewParseError("P008", p.line, "missing closing parenthesis in call to %s", name.Lexeme)
	}
	p.next()
	return &ast.CallExpression{Token: name, Name: name.Lexeme, Args: args}, nil
}

// maybeUnit attaches a trailing composite unit word: `100 km`, `9.8 m/s^2`.
func (p *Parser) maybeUnit(expr ast.Expression) (ast.Expression, *diagnostics.Error) {
	c := p.cur()
	if c.Type != token.IDENT || token.IsKeyword(c.Lexeme) || units.Lookup(c.Lexeme) == nil {
		return expr, nil
	}
	if p.peekTok().Type == token.LPAREN {
		return expr, nil // function call, not a unit
	}
	var b strings.Builder
	b.WriteString(p.next().Lexeme)
	for {
		switch {
		case p.cur().Type == token.CARET && p.peekTok().Type == token.NUMBER:
			p.next()
			b.WriteString("^" + p.next().Lexeme)
		case (p.cur().Type == token.SLASH || p.cur().Type == token.STAR) &&
			p.peekTok().Type == token.IDENT && units.Lookup(p.peekTok().Lexeme) != nil:
			sep := p.next().Lexeme
			b.WriteString(sep + p.next().Lexeme)
		case p.cur().Type == token.IDENT && p.cur().Lexeme == "per" &&
			p.peekTok().Type == token.IDENT && units.Lookup(p.peekTok().Lexeme) != nil:
			p.next()
			b.WriteString("/" + p.next().Lexeme)
		default:
			return &ast.UnitExpression{Token: c, Expr: expr, Unit: b.String()}, nil
		}
	}
}

// ---- solve statements ----

// parseSolve handles `solve target in eq1[, eq2...] [where a = 1, b = 2]
// [to UNIT]`.
func (p *Parser) parseSolve() (ast.Statement, *diagnostics.Error) {
	t := p.toks
	idxIn := -1
	depth := 0
	for i := 1; i < len(t); i++ {
		switch t[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.IDENT:
			if depth == 0 && t[i].Lexeme == "in" {
				idxIn = i
			}
		}
		if idxIn >= 0 {
			break
		}
	}
	if idxIn < 0 {
		return nil, diagnostics.NewParseError("P030", p.line, "solve statement is missing \"in\"")
	}

	var nameWords []string
	for _, tok := range t[1:idxIn] {
		if tok.Type != token.IDENT {
			return nil, diagnostics.NewParseError("P031", p.line, "bad solve target %q", tok.Lexeme)
		}
		nameWords = append(nameWords, tok.Lexeme)
	}
	if len(nameWords) == 0 {
		return nil, diagnostics.NewParseError("P031", p.line, "solve statement is missing a target")
	}
	target := strings.Join(nameWords, " ")

	idxWhere, idxTo := -1, -1
	depth = 0
	for i := idxIn + 1; i < len(t); i++ {
		switch t[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.IDENT:
			if depth != 0 {
				continue
			}
			if t[i].Lexeme == "where" && idxWhere < 0 {
				idxWhere = i
			}
			if t[i].Lexeme == "to" && p.validConversionAt(i) {
				idxTo = i
			}
		}
	}

	end := len(p.raw)
	if idxTo >= 0 {
		end = t[idxTo].Pos
	}
	whereEnd := end
	eqEnd := end
	if idxWhere >= 0 {
		eqEnd = t[idxWhere].Pos
	}

	eqRegion := strings.TrimSpace(p.raw[t[idxIn+1].Pos:min(eqEnd, len(p.raw))])
	var eqs []ast.Equation
	for _, part := range splitTopLevel(eqRegion, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		li := strings.Index(part, "=")
		if li < 0 {
			return nil, diagnostics.NewParseError("P032", p.line, "equation %q has no =", part)
		}
		eqs = append(eqs, ast.Equation{
			Left:  strings.TrimSpace(part[:li]),
			Right: strings.TrimSpace(part[li+1:]),
		})
	}
	if len(eqs) == 0 {
		return nil, diagnostics.NewParseError("P033", p.line, "solve statement has no equations")
	}

	var where []ast.WhereClause
	if idxWhere >= 0 {
		region := strings.TrimSpace(p.raw[t[idxWhere].Pos+len("where") : min(whereEnd, len(p.raw))])
		for _, part := range splitTopLevel(region, ',') {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			li := strings.Index(part, "=")
			if li < 0 {
				return nil, diagnostics.NewParseError("P034", p.line, "where clause %q has no =", part)
			}
			where = append(where, ast.WhereClause{
				Name: strings.TrimSpace(part[:li]),
				Expr: strings.TrimSpace(part[li+1:]),
			})
		}
	}

	convert := ""
	if idxTo >= 0 {
		var b strings.Builder
		for _, tok := range t[idxTo+1:] {
			if tok.Type == token.EOF {
				break
			}
			b.WriteString(tok.Lexeme)
		}
		convert = b.String()
	}

	return &ast.SolveStatement{
		Token:     t[0],
		Raw:       p.raw,
		Target:    target,
		Equations: eqs,
		Where:     where,
		Convert:   convert,
	}, nil
}

// validConversionAt reports whether the token at i starts a trailing
// conversion: everything after must be unit/currency words.
func (p *Parser) validConversionAt(i int) bool {
	rest := p.toks[i+1:]
	if len(rest) == 0 || rest[0].Type == token.EOF {
		return false
	}
	first := rest[0]
	firstOK := first.Type == token.CURRENCY ||
		(first.Type == token.IDENT && (units.Lookup(first.Lexeme) != nil || value.IsCurrencyCode(first.Lexeme) || isCurrencyWord(first.Lexeme)))
	if !firstOK {
		return false
	}
	for _, tok := range rest {
		switch tok.Type {
		case token.IDENT, token.NUMBER, token.SLASH, token.STAR, token.CARET, token.CURRENCY, token.EOF:
		default:
			return false
		}
	}
	return true
}

func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ---- token cursor helpers ----

func (p *Parser) cur() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token.Token{Type: token.EOF, Line: p.line}
}

func (p *Parser) peekTok() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return token.Token{Type: token.EOF, Line: p.line}
}

func (p *Parser) next() token.Token {
	c := p.cur()
	p.pos++
	return c
}

func (p *Parser) peekIs(t token.Type, lexeme string) bool {
	c := p.cur()
	return c.Type == t && c.Lexeme == lexeme
}

func (p *Parser) peekNextIs(t token.Type, lexeme string) bool {
	n := p.peekTok()
	return n.Type == t && n.Lexeme == lexeme
}

func (p *Parser) peekNextType() token.Type {
	return p.peekTok().Type
}

// sliceFrom returns the raw line from a byte offset.
func (p *Parser) sliceFrom(pos int) string {
	if pos >= len(p.raw) {
		return ""
	}
	return p.raw[pos:]
}
