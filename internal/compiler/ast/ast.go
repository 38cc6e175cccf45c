// Package ast defines the Abstract Syntax Tree (AST) node types for resolver handler files.
// It covers the narrow TypeScript subset the compiler accepts: imports, structural type
// declarations, variable and function declarations, and the expressions used inside handlers.
package ast

import "github.com/resolverkit/resolverkit/internal/compiler/lexer"

// SourceLocation tracks the position of an AST node in source code
type SourceLocation struct {
	Line   int `json:"line"`   // Line number (1-indexed)
	Column int `json:"column"` // Column number (1-indexed)
}

// Span is the half-open byte range [Start, End) a node occupies in its source
type Span struct {
	Start int
	End   int
}

// Node is the base interface for all AST nodes
type Node interface {
	Location() SourceLocation
	Range() Span
	node()
}

// SourceFile is the root node of the AST
type SourceFile struct {
	Statements []StmtNode
	Loc        SourceLocation
	Span       Span
}

func (f *SourceFile) node() {}

// Location returns the source location of the file node.
func (f *SourceFile) Location() SourceLocation {
	return f.Loc
}

// Range returns the byte span of the file node.
func (f *SourceFile) Range() Span {
	return f.Span
}

// StmtNode is the interface for all statement nodes
type StmtNode interface {
	Node
	stmtNode()
}

// ImportDecl represents `import x from 'mod'`, `import { a, b } from 'mod'`
// or `import * as ns from 'mod'`.
type ImportDecl struct {
	DefaultName string   // default binding, empty when absent
	Named       []string // named bindings
	Namespace   string   // namespace binding, empty when absent
	TypeOnly    bool     // import type ...
	Module      string   // unquoted module specifier
	Loc         SourceLocation
	Span        Span
}

func (i *ImportDecl) node()     {}
func (i *ImportDecl) stmtNode() {}

// Location returns the source location of the import declaration.
func (i *ImportDecl) Location() SourceLocation { return i.Loc }

// Range returns the byte span of the import declaration.
func (i *ImportDecl) Range() Span { return i.Span }

// TypeAliasDecl represents `type Name = <type>`
type TypeAliasDecl struct {
	Name     string
	Type     TypeNode
	Exported bool
	Loc      SourceLocation
	Span     Span
}

func (t *TypeAliasDecl) node()     {}
func (t *TypeAliasDecl) stmtNode() {}

// Location returns the source location of the type alias.
func (t *TypeAliasDecl) Location() SourceLocation { return t.Loc }

// Range returns the byte span of the type alias.
func (t *TypeAliasDecl) Range() Span { return t.Span }

// InterfaceDecl represents `interface Name { ... }`
type InterfaceDecl struct {
	Name     string
	Members  []*PropertySignature
	Exported bool
	Loc      SourceLocation
	Span     Span
}

func (i *InterfaceDecl) node()     {}
func (i *InterfaceDecl) stmtNode() {}

// Location returns the source location of the interface.
func (i *InterfaceDecl) Location() SourceLocation { return i.Loc }

// Range returns the byte span of the interface.
func (i *InterfaceDecl) Range() Span { return i.Span }

// VarStmt represents a const/let/var statement with one or more declarators
type VarStmt struct {
	Kind     string // "const", "let" or "var"
	Decls    []*VarDecl
	Exported bool
	Loc      SourceLocation
	Span     Span
}

func (v *VarStmt) node()     {}
func (v *VarStmt) stmtNode() {}

// Location returns the source location of the variable statement.
func (v *VarStmt) Location() SourceLocation { return v.Loc }

// Range returns the byte span of the variable statement.
func (v *VarStmt) Range() Span { return v.Span }

// VarDecl is a single declarator inside a VarStmt
type VarDecl struct {
	Target BindingNode
	Type   TypeNode // optional annotation
	Init   ExprNode // optional initializer
	Loc    SourceLocation
	Span   Span
}

func (v *VarDecl) node() {}

// Location returns the source location of the declarator.
func (v *VarDecl) Location() SourceLocation { return v.Loc }

// Range returns the byte span of the declarator.
func (v *VarDecl) Range() Span { return v.Span }

// FunctionDecl represents `function name(params): Ret { ... }`
type FunctionDecl struct {
	Name       string
	Params     []*Param
	ReturnType TypeNode
	Body       *BlockStmt
	Async      bool
	Exported   bool
	Loc        SourceLocation
	Span       Span
}

func (f *FunctionDecl) node()     {}
func (f *FunctionDecl) stmtNode() {}

// Location returns the source location of the function declaration.
func (f *FunctionDecl) Location() SourceLocation { return f.Loc }

// Range returns the byte span of the function declaration.
func (f *FunctionDecl) Range() Span { return f.Span }

// ExportDefaultDecl represents `export default <expr>`
type ExportDefaultDecl struct {
	Value ExprNode
	Loc   SourceLocation
	Span  Span
}

func (e *ExportDefaultDecl) node()     {}
func (e *ExportDefaultDecl) stmtNode() {}

// Location returns the source location of the default export.
func (e *ExportDefaultDecl) Location() SourceLocation { return e.Loc }

// Range returns the byte span of the default export.
func (e *ExportDefaultDecl) Range() Span { return e.Span }

// ExportListDecl represents `export { a, b as c }`
type ExportListDecl struct {
	Names []string // exported names, after renaming
	Loc   SourceLocation
	Span  Span
}

func (e *ExportListDecl) node()     {}
func (e *ExportListDecl) stmtNode() {}

// Location returns the source location of the export list.
func (e *ExportListDecl) Location() SourceLocation { return e.Loc }

// Range returns the byte span of the export list.
func (e *ExportListDecl) Range() Span { return e.Span }

// ExprStmt represents an expression used as a statement
type ExprStmt struct {
	Expr ExprNode
	Loc  SourceLocation
	Span Span
}

func (e *ExprStmt) node()     {}
func (e *ExprStmt) stmtNode() {}

// Location returns the source location of the expression statement.
func (e *ExprStmt) Location() SourceLocation { return e.Loc }

// Range returns the byte span of the expression statement.
func (e *ExprStmt) Range() Span { return e.Span }

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Value ExprNode // nil for a bare return
	Loc   SourceLocation
	Span  Span
}

func (r *ReturnStmt) node()     {}
func (r *ReturnStmt) stmtNode() {}

// Location returns the source location of the return statement.
func (r *ReturnStmt) Location() SourceLocation { return r.Loc }

// Range returns the byte span of the return statement.
func (r *ReturnStmt) Range() Span { return r.Span }

// IfStmt represents if / else
type IfStmt struct {
	Condition ExprNode
	Then      StmtNode
	Else      StmtNode // nil when absent
	Loc       SourceLocation
	Span      Span
}

func (i *IfStmt) node()     {}
func (i *IfStmt) stmtNode() {}

// Location returns the source location of the if statement.
func (i *IfStmt) Location() SourceLocation { return i.Loc }

// Range returns the byte span of the if statement.
func (i *IfStmt) Range() Span { return i.Span }

// ThrowStmt represents throw <expr>
type ThrowStmt struct {
	Value ExprNode
	Loc   SourceLocation
	Span  Span
}

func (t *ThrowStmt) node()     {}
func (t *ThrowStmt) stmtNode() {}

// Location returns the source location of the throw statement.
func (t *ThrowStmt) Location() SourceLocation { return t.Loc }

// Range returns the byte span of the throw statement.
func (t *ThrowStmt) Range() Span { return t.Span }

// BlockStmt represents a { ... } block
type BlockStmt struct {
	Statements []StmtNode
	Loc        SourceLocation
	Span       Span
}

func (b *BlockStmt) node()     {}
func (b *BlockStmt) stmtNode() {}

// Location returns the source location of the block.
func (b *BlockStmt) Location() SourceLocation { return b.Loc }

// Range returns the byte span of the block.
func (b *BlockStmt) Range() Span { return b.Span }

// BindingNode is a declaration target: a plain identifier or an object pattern
type BindingNode interface {
	Node
	bindingNode()
}

// BindingIdent binds a single name
type BindingIdent struct {
	Name string
	Loc  SourceLocation
	Span Span
}

func (b *BindingIdent) node()        {}
func (b *BindingIdent) bindingNode() {}

// Location returns the source location of the binding.
func (b *BindingIdent) Location() SourceLocation { return b.Loc }

// Range returns the byte span of the binding.
func (b *BindingIdent) Range() Span { return b.Span }

// ObjectPattern destructures an object: { a, b: c, d = 1 }
type ObjectPattern struct {
	Properties []*PatternProperty
	Loc        SourceLocation
	Span       Span
}

func (o *ObjectPattern) node()        {}
func (o *ObjectPattern) bindingNode() {}

// Location returns the source location of the pattern.
func (o *ObjectPattern) Location() SourceLocation { return o.Loc }

// Range returns the byte span of the pattern.
func (o *ObjectPattern) Range() Span { return o.Span }

// PatternProperty is one entry of an ObjectPattern
type PatternProperty struct {
	Key     string
	Alias   string   // local name when renamed (b: c), otherwise equal to Key
	Default ExprNode // optional default value
	Rest    bool     // ...rest
}

// Names returns the local names bound by the pattern, in source order
func (o *ObjectPattern) Names() []string {
	names := make([]string, 0, len(o.Properties))
	for _, prop := range o.Properties {
		names = append(names, prop.Alias)
	}
	return names
}

// Param is a function parameter
type Param struct {
	Target   BindingNode
	Type     TypeNode
	Optional bool
	Default  ExprNode
	Loc      SourceLocation
	Span     Span
}

func (p *Param) node() {}

// Location returns the source location of the parameter.
func (p *Param) Location() SourceLocation { return p.Loc }

// Range returns the byte span of the parameter.
func (p *Param) Range() Span { return p.Span }

// TokenLocation converts a token position into a SourceLocation
func TokenLocation(token lexer.Token) SourceLocation {
	return SourceLocation{
		Line:   token.Line,
		Column: token.Column,
	}
}

// TokenSpan returns the span between the start of first and the end of last
func TokenSpan(first, last lexer.Token) Span {
	return Span{Start: first.Start, End: last.End}
}
