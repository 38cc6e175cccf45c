package ast

// TypeNode is the interface for all type annotation nodes
type TypeNode interface {
	Node
	typeNode()
}

// TypeReference is a named type, optionally with type arguments: Foo, Array<string>
type TypeReference struct {
	Name     string
	TypeArgs []TypeNode
	Loc      SourceLocation
	Span     Span
}

func (t *TypeReference) node()     {}
func (t *TypeReference) typeNode() {}

// Location returns the source location of the type reference.
func (t *TypeReference) Location() SourceLocation { return t.Loc }

// Range returns the byte span of the type reference.
func (t *TypeReference) Range() Span { return t.Span }

// TypeLiteral is an inline structural type: { a: string; b?: number }
type TypeLiteral struct {
	Members []*PropertySignature
	Loc     SourceLocation
	Span    Span
}

func (t *TypeLiteral) node()     {}
func (t *TypeLiteral) typeNode() {}

// Location returns the source location of the type literal.
func (t *TypeLiteral) Location() SourceLocation { return t.Loc }

// Range returns the byte span of the type literal.
func (t *TypeLiteral) Range() Span { return t.Span }

// ArrayType is T[]
type ArrayType struct {
	Element TypeNode
	Loc     SourceLocation
	Span    Span
}

func (a *ArrayType) node()     {}
func (a *ArrayType) typeNode() {}

// Location returns the source location of the array type.
func (a *ArrayType) Location() SourceLocation { return a.Loc }

// Range returns the byte span of the array type.
func (a *ArrayType) Range() Span { return a.Span }

// UnionType is A | B
type UnionType struct {
	Types []TypeNode
	Loc   SourceLocation
	Span  Span
}

func (u *UnionType) node()     {}
func (u *UnionType) typeNode() {}

// Location returns the source location of the union type.
func (u *UnionType) Location() SourceLocation { return u.Loc }

// Range returns the byte span of the union type.
func (u *UnionType) Range() Span { return u.Span }

// LiteralType is a literal used in type position: 'a', 42, true, null, undefined
type LiteralType struct {
	Raw  string
	Loc  SourceLocation
	Span Span
}

func (l *LiteralType) node()     {}
func (l *LiteralType) typeNode() {}

// Location returns the source location of the literal type.
func (l *LiteralType) Location() SourceLocation { return l.Loc }

// Range returns the byte span of the literal type.
func (l *LiteralType) Range() Span { return l.Span }

// PropertySignature is one member of a TypeLiteral or InterfaceDecl
type PropertySignature struct {
	Name     string
	Optional bool
	Type     TypeNode
	Loc      SourceLocation
	Span     Span
}

func (p *PropertySignature) node() {}

// Location returns the source location of the property signature.
func (p *PropertySignature) Location() SourceLocation { return p.Loc }

// Range returns the byte span of the property signature.
func (p *PropertySignature) Range() Span { return p.Span }
