package solver

import (
	"strings"

	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/value"
)

// Node is an algebraic expression tree node. Trees are treated as
// immutable: every rearrangement builds new nodes and shares subtrees.
type Node interface {
	// Count reports how many times the named variable occurs.
	Count(name string) int
	String() string
	precedence() int
}

// Literal wraps any numeric semantic value: plain numbers, quantities,
// currencies. Units ride along untouched through the algebra.
type Literal struct {
	Val value.Value
}

func Lit(v value.Value) *Literal { return &Literal{Val: v} }
func Num(f float64) *Literal     { return &Literal{Val: value.NewNumber(f)} }

func (l *Literal) Count(string) int { return 0 }
func (l *Literal) precedence() int  { return 4 }
func (l *Literal) String() string {
	return l.Val.Display(config.DefaultSettings())
}

// Variable is an unresolved name, typically the solve target.
type Variable struct {
	Name string
}

func (v *Variable) Count(name string) int {
	if v.Name == name {
		return 1
	}
	return 0
}
func (v *Variable) precedence() int { return 4 }
func (v *Variable) String() string  { return v.Name }

// Binary is an infix operation: + - * / ^.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

func (b *Binary) Count(name string) int {
	return b.Left.Count(name) + b.Right.Count(name)
}

func (b *Binary) precedence() int {
	switch b.Op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	default: // ^
		return 3
	}
}

func (b *Binary) String() string {
	var sb strings.Builder
	sb.WriteString(wrap(b.Left, b.precedence(), false))
	sb.WriteString(" " + b.Op + " ")
	sb.WriteString(wrap(b.Right, b.precedence(), b.Op == "-" || b.Op == "/" || b.Op == "^"))
	return sb.String()
}

// Unary is arithmetic negation.
type Unary struct {
	Operand Node
}

func (u *Unary) Count(name string) int { return u.Operand.Count(name) }
func (u *Unary) precedence() int       { return 3 }
func (u *Unary) String() string        { return "-" + wrap(u.Operand, u.precedence(), true) }

// Call applies a built-in function.
type Call struct {
	Name string
	Args []Node
}

func (c *Call) Count(name string) int {
	n := 0
	for _, a := range c.Args {
		n += a.Count(name)
	}
	return n
}
func (c *Call) precedence() int { return 4 }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// wrap parenthesizes a child whose binding is looser than its parent;
// strictRight also wraps equal binding on the right of - / ^.
func wrap(n Node, parentPrec int, strictRight bool) string {
	p := n.precedence()
	if p < parentPrec || (strictRight && p == parentPrec) {
		return "(" + n.String() + ")"
	}
	return n.String()
}
