package ast

// ExprNode is the interface for all expression nodes
type ExprNode interface {
	Node
	exprNode()
}

// Identifier represents a name reference
type Identifier struct {
	Name string
	Loc  SourceLocation
	Span Span
}

func (i *Identifier) node()     {}
func (i *Identifier) exprNode() {}

// Location returns the source location of the identifier.
func (i *Identifier) Location() SourceLocation { return i.Loc }

// Range returns the byte span of the identifier.
func (i *Identifier) Range() Span { return i.Span }

// LiteralKind distinguishes literal expressions
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBool
	LiteralNull
	LiteralUndefined
)

// LiteralExpr represents a string, number, boolean, null or undefined literal
type LiteralExpr struct {
	Kind  LiteralKind
	Value interface{} // string, float64, bool or nil
	Raw   string      // lexeme as written
	Loc   SourceLocation
	Span  Span
}

func (l *LiteralExpr) node()     {}
func (l *LiteralExpr) exprNode() {}

// Location returns the source location of the literal.
func (l *LiteralExpr) Location() SourceLocation { return l.Loc }

// Range returns the byte span of the literal.
func (l *LiteralExpr) Range() Span { return l.Span }

// TemplateLit is a backtick template string; interpolations stay inside Raw
type TemplateLit struct {
	Raw  string
	Loc  SourceLocation
	Span Span
}

func (t *TemplateLit) node()     {}
func (t *TemplateLit) exprNode() {}

// Location returns the source location of the template literal.
func (t *TemplateLit) Location() SourceLocation { return t.Loc }

// Range returns the byte span of the template literal.
func (t *TemplateLit) Range() Span { return t.Span }

// ObjectLit represents { a, b: 1, ...rest }
type ObjectLit struct {
	Properties []*Property
	Loc        SourceLocation
	Span       Span
}

func (o *ObjectLit) node()     {}
func (o *ObjectLit) exprNode() {}

// Location returns the source location of the object literal.
func (o *ObjectLit) Location() SourceLocation { return o.Loc }

// Range returns the byte span of the object literal.
func (o *ObjectLit) Range() Span { return o.Span }

// Property is a single object literal entry
type Property struct {
	Key       string
	Computed  ExprNode // [expr]: value, nil for plain keys
	Value     ExprNode
	Shorthand bool // { a } is { a: a }
	Spread    bool // { ...value }
	Loc       SourceLocation
	Span      Span
}

// ArrayLit represents [a, b, ...c]
type ArrayLit struct {
	Elements []ExprNode
	Loc      SourceLocation
	Span     Span
}

func (a *ArrayLit) node()     {}
func (a *ArrayLit) exprNode() {}

// Location returns the source location of the array literal.
func (a *ArrayLit) Location() SourceLocation { return a.Loc }

// Range returns the byte span of the array literal.
func (a *ArrayLit) Range() Span { return a.Span }

// CallExpr represents callee<TypeArgs>(args)
type CallExpr struct {
	Callee   ExprNode
	TypeArgs []TypeNode
	Args     []ExprNode
	Optional bool // callee?.()
	Loc      SourceLocation
	Span     Span
}

func (c *CallExpr) node()     {}
func (c *CallExpr) exprNode() {}

// Location returns the source location of the call.
func (c *CallExpr) Location() SourceLocation { return c.Loc }

// Range returns the byte span of the call.
func (c *CallExpr) Range() Span { return c.Span }

// MemberExpr represents object.property or object?.property
type MemberExpr struct {
	Object   ExprNode
	Property string
	Optional bool
	Loc      SourceLocation
	Span     Span
}

func (m *MemberExpr) node()     {}
func (m *MemberExpr) exprNode() {}

// Location returns the source location of the member access.
func (m *MemberExpr) Location() SourceLocation { return m.Loc }

// Range returns the byte span of the member access.
func (m *MemberExpr) Range() Span { return m.Span }

// IndexExpr represents object[index]
type IndexExpr struct {
	Object   ExprNode
	Index    ExprNode
	Optional bool
	Loc      SourceLocation
	Span     Span
}

func (i *IndexExpr) node()     {}
func (i *IndexExpr) exprNode() {}

// Location returns the source location of the index access.
func (i *IndexExpr) Location() SourceLocation { return i.Loc }

// Range returns the byte span of the index access.
func (i *IndexExpr) Range() Span { return i.Span }

// FunctionExpr covers arrow functions and function expressions.
// Arrow functions with an expression body set ExprBody and leave Body nil.
type FunctionExpr struct {
	Name       string // function expression name, usually empty
	Params     []*Param
	ReturnType TypeNode
	Body       *BlockStmt
	ExprBody   ExprNode
	Async      bool
	Arrow      bool
	Loc        SourceLocation
	Span       Span
}

func (f *FunctionExpr) node()     {}
func (f *FunctionExpr) exprNode() {}

// Location returns the source location of the function expression.
func (f *FunctionExpr) Location() SourceLocation { return f.Loc }

// Range returns the byte span of the function expression.
func (f *FunctionExpr) Range() Span { return f.Span }

// AwaitExpr represents await <expr>
type AwaitExpr struct {
	Value ExprNode
	Loc   SourceLocation
	Span  Span
}

func (a *AwaitExpr) node()     {}
func (a *AwaitExpr) exprNode() {}

// Location returns the source location of the await expression.
func (a *AwaitExpr) Location() SourceLocation { return a.Loc }

// Range returns the byte span of the await expression.
func (a *AwaitExpr) Range() Span { return a.Span }

// UnaryExpr represents !x, -x, +x, typeof-free prefix operators
type UnaryExpr struct {
	Operator string
	Operand  ExprNode
	Loc      SourceLocation
	Span     Span
}

func (u *UnaryExpr) node()     {}
func (u *UnaryExpr) exprNode() {}

// Location returns the source location of the unary expression.
func (u *UnaryExpr) Location() SourceLocation { return u.Loc }

// Range returns the byte span of the unary expression.
func (u *UnaryExpr) Range() Span { return u.Span }

// NonNullExpr represents the postfix assertion x!
type NonNullExpr struct {
	Value ExprNode
	Loc   SourceLocation
	Span  Span
}

func (n *NonNullExpr) node()     {}
func (n *NonNullExpr) exprNode() {}

// Location returns the source location of the assertion.
func (n *NonNullExpr) Location() SourceLocation { return n.Loc }

// Range returns the byte span of the assertion.
func (n *NonNullExpr) Range() Span { return n.Span }

// BinaryExpr represents arithmetic, comparison and logical operators
type BinaryExpr struct {
	Left     ExprNode
	Operator string
	Right    ExprNode
	Loc      SourceLocation
	Span     Span
}

func (b *BinaryExpr) node()     {}
func (b *BinaryExpr) exprNode() {}

// Location returns the source location of the binary expression.
func (b *BinaryExpr) Location() SourceLocation { return b.Loc }

// Range returns the byte span of the binary expression.
func (b *BinaryExpr) Range() Span { return b.Span }

// ConditionalExpr represents cond ? a : b
type ConditionalExpr struct {
	Condition ExprNode
	Then      ExprNode
	Else      ExprNode
	Loc       SourceLocation
	Span      Span
}

func (c *ConditionalExpr) node()     {}
func (c *ConditionalExpr) exprNode() {}

// Location returns the source location of the conditional.
func (c *ConditionalExpr) Location() SourceLocation { return c.Loc }

// Range returns the byte span of the conditional.
func (c *ConditionalExpr) Range() Span { return c.Span }

// AssignExpr represents target = value
type AssignExpr struct {
	Target ExprNode
	Value  ExprNode
	Loc    SourceLocation
	Span   Span
}

func (a *AssignExpr) node()     {}
func (a *AssignExpr) exprNode() {}

// Location returns the source location of the assignment.
func (a *AssignExpr) Location() SourceLocation { return a.Loc }

// Range returns the byte span of the assignment.
func (a *AssignExpr) Range() Span { return a.Span }

// NewExpr represents new Callee(args)
type NewExpr struct {
	Callee ExprNode
	Args   []ExprNode
	Loc    SourceLocation
	Span   Span
}

func (n *NewExpr) node()     {}
func (n *NewExpr) exprNode() {}

// Location returns the source location of the new expression.
func (n *NewExpr) Location() SourceLocation { return n.Loc }

// Range returns the byte span of the new expression.
func (n *NewExpr) Range() Span { return n.Span }

// AsExpr represents value as Type
type AsExpr struct {
	Value ExprNode
	Type  TypeNode
	Loc   SourceLocation
	Span  Span
}

func (a *AsExpr) node()     {}
func (a *AsExpr) exprNode() {}

// Location returns the source location of the cast.
func (a *AsExpr) Location() SourceLocation { return a.Loc }

// Range returns the byte span of the cast.
func (a *AsExpr) Range() Span { return a.Span }

// SpreadElement represents ...value in call arguments and array literals
type SpreadElement struct {
	Value ExprNode
	Loc   SourceLocation
	Span  Span
}

func (s *SpreadElement) node()     {}
func (s *SpreadElement) exprNode() {}

// Location returns the source location of the spread.
func (s *SpreadElement) Location() SourceLocation { return s.Loc }

// Range returns the byte span of the spread.
func (s *SpreadElement) Range() Span { return s.Span }

// ParenExpr represents (expr)
type ParenExpr struct {
	Inner ExprNode
	Loc   SourceLocation
	Span  Span
}

func (p *ParenExpr) node()     {}
func (p *ParenExpr) exprNode() {}

// Location returns the source location of the parenthesized expression.
func (p *ParenExpr) Location() SourceLocation { return p.Loc }

// Range returns the byte span of the parenthesized expression.
func (p *ParenExpr) Range() Span { return p.Span }

// Unwrap strips parentheses and non-null assertions from an expression
func Unwrap(expr ExprNode) ExprNode {
	for {
		switch e := expr.(type) {
		case *ParenExpr:
			expr = e.Inner
		case *NonNullExpr:
			expr = e.Value
		default:
			return expr
		}
	}
}
