package ast

import (
	"strings"
	"time"

	"github.com/nmaxcom/smartpad/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is one notebook line in typed form.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
	// Raw is the original line text, preserved for result records.
	RawText() string
}

// Expression is an evaluable expression node.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
	String() string
}

// ---- statements ----

// CommentStatement is a passthrough line starting with # or //.
type CommentStatement struct {
	Token token.Token
	Raw   string
}

func (c *CommentStatement) statementNode()        {}
func (c *CommentStatement) TokenLiteral() string  { return c.Token.Lexeme }
func (c *CommentStatement) GetToken() token.Token { return c.Token }
func (c *CommentStatement) RawText() string       { return c.Raw }

// TextStatement is a line the parser could not interpret; it renders
// unchanged.
type TextStatement struct {
	Token token.Token
	Raw   string
}

func (t *TextStatement) statementNode()        {}
func (t *TextStatement) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TextStatement) GetToken() token.Token { return t.Token }
func (t *TextStatement) RawText() string       { return t.Raw }

// ExpressionStatement is a bare expression, optionally displayed with =>.
type ExpressionStatement struct {
	Token   token.Token
	Raw     string
	Expr    Expression
	Display bool
}

func (e *ExpressionStatement) statementNode()        {}
func (e *ExpressionStatement) TokenLiteral() string  { return e.Token.Lexeme }
func (e *ExpressionStatement) GetToken() token.Token { return e.Token }
func (e *ExpressionStatement) RawText() string       { return e.Raw }

// AssignStatement is `name = expr`, or the combined `name = expr =>`.
type AssignStatement struct {
	Token    token.Token
	Raw      string
	Name     string
	Expr     Expression
	ExprText string // right-hand side as written
	Display  bool   // combined assignment + display
}

func (a *AssignStatement) statementNode()        {}
func (a *AssignStatement) TokenLiteral() string  { return a.Token.Lexeme }
func (a *AssignStatement) GetToken() token.Token { return a.Token }
func (a *AssignStatement) RawText() string       { return a.Raw }

// Equation is one `left = right` pair inside a solve statement.
type Equation struct {
	Left  string
	Right string
}

func (e Equation) Text() string { return e.Left + " = " + e.Right }

// WhereClause is an auxiliary assignment in a solve statement.
type WhereClause struct {
	Name string
	Expr string
}

// SolveStatement is `solve target in eq1[, eq2...] [where a = 1] [to u]`,
// or the implicit form for a bare undeclared identifier.
type SolveStatement struct {
	Token     token.Token
	Raw       string
	Target    string
	Equations []Equation
	Where     []WhereClause
	Convert   string // trailing unit/currency suffix, "" when absent
	Implicit  bool   // bare identifier with no declared value
}

func (s *SolveStatement) statementNode()        {}
func (s *SolveStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *SolveStatement) GetToken() token.Token { return s.Token }
func (s *SolveStatement) RawText() string       { return s.Raw }

// FuncDefStatement is a user function definition `f(x, y) = body`.
type FuncDefStatement struct {
	Token  token.Token
	Raw    string
	Name   string
	Params []string
	Body   string
}

func (f *FuncDefStatement) statementNode()        {}
func (f *FuncDefStatement) TokenLiteral() string  { return f.Token.Lexeme }
func (f *FuncDefStatement) GetToken() token.Token { return f.Token }
func (f *FuncDefStatement) RawText() string       { return f.Raw }

// ---- expressions ----

type NumberLiteral struct {
	Token token.Token
	Val   float64
}

func (n *NumberLiteral) expressionNode()       {}
func (n *NumberLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NumberLiteral) GetToken() token.Token { return n.Token }
func (n *NumberLiteral) String() string        { return n.Token.Lexeme }

type PercentLiteral struct {
	Token token.Token // the number token
	Val   float64
}

func (p *PercentLiteral) expressionNode()       {}
func (p *PercentLiteral) TokenLiteral() string  { return p.Token.Lexeme }
func (p *PercentLiteral) GetToken() token.Token { return p.Token }
func (p *PercentLiteral) String() string        { return p.Token.Lexeme + "%" }

type CurrencyLiteral struct {
	Token  token.Token
	Amount float64
	Code   string
}

func (c *CurrencyLiteral) expressionNode()       {}
func (c *CurrencyLiteral) TokenLiteral() string  { return c.Token.Lexeme }
func (c *CurrencyLiteral) GetToken() token.Token { return c.Token }
func (c *CurrencyLiteral) String() string        { return c.Token.Lexeme }

type DateLiteral struct {
	Token token.Token
	Time  time.Time
}

func (d *DateLiteral) expressionNode()       {}
func (d *DateLiteral) TokenLiteral() string  { return d.Token.Lexeme }
func (d *DateLiteral) GetToken() token.Token { return d.Token }
func (d *DateLiteral) String() string        { return d.Token.Lexeme }

type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string        { return i.Name }

type PrefixExpression struct {
	Token token.Token
	Op    string
	Right Expression
}

func (p *PrefixExpression) expressionNode()       {}
func (p *PrefixExpression) TokenLiteral() string  { return p.Token.Lexeme }
func (p *PrefixExpression) GetToken() token.Token { return p.Token }
func (p *PrefixExpression) String() string        { return "(" + p.Op + p.Right.String() + ")" }

type InfixExpression struct {
	Token token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (i *InfixExpression) expressionNode()       {}
func (i *InfixExpression) TokenLiteral() string  { return i.Token.Lexeme }
func (i *InfixExpression) GetToken() token.Token { return i.Token }
func (i *InfixExpression) String() string {
	return "(" + i.Left.String() + " " + i.Op + " " + i.Right.String() + ")"
}

type CallExpression struct {
	Token token.Token
	Name  string
	Args  []Expression
}

func (c *CallExpression) expressionNode()       {}
func (c *CallExpression) TokenLiteral() string  { return c.Token.Lexeme }
func (c *CallExpression) GetToken() token.Token { return c.Token }
func (c *CallExpression) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// RangeExpression is the integer range literal a..b.
type RangeExpression struct {
	Token token.Token
	Start Expression
	End   Expression
}

func (r *RangeExpression) expressionNode()       {}
func (r *RangeExpression) TokenLiteral() string  { return r.Token.Lexeme }
func (r *RangeExpression) GetToken() token.Token { return r.Token }
func (r *RangeExpression) String() string        { return r.Start.String() + ".." + r.End.String() }

// UnitExpression tags a value expression with a composite unit word:
// `100 km`, `(a + b) m/s`.
type UnitExpression struct {
	Token token.Token
	Expr  Expression
	Unit  string
}

func (u *UnitExpression) expressionNode()       {}
func (u *UnitExpression) TokenLiteral() string  { return u.Token.Lexeme }
func (u *UnitExpression) GetToken() token.Token { return u.Token }
func (u *UnitExpression) String() string        { return u.Expr.String() + " " + u.Unit }

// PercentApplication is a percentage phrase: `P% of X`, `P% on X`,
// `P% off X`.
type PercentApplication struct {
	Token   token.Token
	Percent Expression
	Op      string // "of", "on", "off"
	Value   Expression
}

func (p *PercentApplication) expressionNode()       {}
func (p *PercentApplication) TokenLiteral() string  { return p.Token.Lexeme }
func (p *PercentApplication) GetToken() token.Token { return p.Token }
func (p *PercentApplication) String() string {
	return p.Percent.String() + " " + p.Op + " " + p.Value.String()
}

// AsPercentExpression is `X as %`.
type AsPercentExpression struct {
	Token token.Token
	Value Expression
}

func (a *AsPercentExpression) expressionNode()       {}
func (a *AsPercentExpression) TokenLiteral() string  { return a.Token.Lexeme }
func (a *AsPercentExpression) GetToken() token.Token { return a.Token }
func (a *AsPercentExpression) String() string        { return a.Value.String() + " as %" }

// WhatPercentExpression is `A is what % of B`.
type WhatPercentExpression struct {
	Token token.Token
	A     Expression
	B     Expression
}

func (w *WhatPercentExpression) expressionNode()       {}
func (w *WhatPercentExpression) TokenLiteral() string  { return w.Token.Lexeme }
func (w *WhatPercentExpression) GetToken() token.Token { return w.Token }
func (w *WhatPercentExpression) String() string {
	return w.A.String() + " is what % of " + w.B.String()
}

// ConversionExpression applies a trailing `to UNIT` / `in UNIT` suffix.
type ConversionExpression struct {
	Token   token.Token
	Expr    Expression
	Target  string
	Keyword string // "to" or "in"
}

func (c *ConversionExpression) expressionNode()       {}
func (c *ConversionExpression) TokenLiteral() string  { return c.Token.Lexeme }
func (c *ConversionExpression) GetToken() token.Token { return c.Token }
func (c *ConversionExpression) String() string {
	return c.Expr.String() + " " + c.Keyword + " " + c.Target
}
