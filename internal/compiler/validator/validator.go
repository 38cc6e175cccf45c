// Package validator checks the import and export shape of a parsed handler file
// before the handler parser walks it.
package validator

import (
	"slices"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
)

// DefaultHelperModule is the module handlers import their data-source helper from
const DefaultHelperModule = "als-resolver-tools"

// HandlerName is the export every resolver file must provide
const HandlerName = "handler"

// Handler is the exported handler function, normalized across its declaration forms
type Handler struct {
	Params     []*ast.Param
	ReturnType ast.TypeNode
	Body       []ast.StmtNode
	Async      bool
	Loc        ast.SourceLocation
}

// Result describes a handler file that passed validation
type Result struct {
	// HelperName is the local binding of the helper module's default export
	HelperName string
	Handler    *Handler
}

// Validator enforces the single-import, single-handler file shape
type Validator struct {
	helperModule string
}

// New creates a validator for the given helper module; empty selects DefaultHelperModule
func New(helperModule string) *Validator {
	if helperModule == "" {
		helperModule = DefaultHelperModule
	}
	return &Validator{helperModule: helperModule}
}

// HelperModule returns the sanctioned helper module specifier
func (v *Validator) HelperModule() string {
	return v.helperModule
}

// Validate checks the file and returns the helper binding and handler.
// The first violated rule is returned as a *errors.CompilerError.
func (v *Validator) Validate(file *ast.SourceFile) (*Result, error) {
	helperName, err := v.validateImports(file)
	if err != nil {
		return nil, err
	}

	handler, err := v.validateExports(file)
	if err != nil {
		return nil, err
	}

	return &Result{HelperName: helperName, Handler: handler}, nil
}

// validateImports requires exactly one import, of the helper module, with a default
// or namespace binding
func (v *Validator) validateImports(file *ast.SourceFile) (string, error) {
	imports := make([]*ast.ImportDecl, 0, 1)
	for _, stmt := range file.Statements {
		if imp, ok := stmt.(*ast.ImportDecl); ok {
			imports = append(imports, imp)
		}
	}

	switch {
	case len(imports) == 0:
		return "", errors.NewMissingImport(file.Loc, v.helperModule)
	case len(imports) > 1:
		return "", errors.NewMultipleImports(imports[1].Loc, len(imports))
	}

	imp := imports[0]
	if imp.Module != v.helperModule {
		return "", errors.NewWrongImport(imp.Loc, imp.Module, v.helperModule)
	}
	if imp.TypeOnly {
		return "", errors.NewMissingHelperBinding(imp.Loc, v.helperModule)
	}
	switch {
	case imp.DefaultName != "":
		return imp.DefaultName, nil
	case imp.Namespace != "":
		return imp.Namespace, nil
	}
	return "", errors.NewMissingHelperBinding(imp.Loc, v.helperModule)
}

// validateExports requires exactly one function-like handler export declared inline.
// Other exports are left alone.
func (v *Validator) validateExports(file *ast.SourceFile) (*Handler, error) {
	var handler *Handler

	found := func(h *Handler, loc ast.SourceLocation) error {
		if handler != nil {
			return errors.NewMultipleHandlers(loc)
		}
		handler = h
		return nil
	}

	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *ast.VarStmt:
			if !s.Exported {
				continue
			}
			for _, decl := range s.Decls {
				ident, ok := decl.Target.(*ast.BindingIdent)
				if !ok {
					if names := decl.Target.(*ast.ObjectPattern).Names(); slices.Contains(names, HandlerName) {
						return nil, errors.NewUnexpectedExport(decl.Loc, HandlerName)
					}
					continue
				}
				if ident.Name != HandlerName {
					continue
				}
				h, err := handlerFromInit(decl)
				if err != nil {
					return nil, err
				}
				if err := found(h, decl.Loc); err != nil {
					return nil, err
				}
			}

		case *ast.FunctionDecl:
			if !s.Exported || s.Name != HandlerName {
				continue
			}
			h := &Handler{
				Params:     s.Params,
				ReturnType: s.ReturnType,
				Body:       s.Body.Statements,
				Async:      s.Async,
				Loc:        s.Loc,
			}
			if err := found(h, s.Loc); err != nil {
				return nil, err
			}

		case *ast.ExportDefaultDecl:
			if ident, ok := ast.Unwrap(s.Value).(*ast.Identifier); ok && ident.Name == HandlerName {
				return nil, errors.NewUnexpectedExport(s.Loc, "default")
			}

		case *ast.ExportListDecl:
			if slices.Contains(s.Names, HandlerName) {
				return nil, errors.NewUnexpectedExport(s.Loc, HandlerName).
					WithSuggestion("Export the handler inline, e.g. export const handler = ...")
			}

		case *ast.ImportDecl, *ast.TypeAliasDecl, *ast.InterfaceDecl, *ast.ExprStmt,
			*ast.IfStmt, *ast.BlockStmt, *ast.ReturnStmt, *ast.ThrowStmt:
			// not exports, or exported types
		}
	}

	if handler == nil {
		return nil, errors.NewMissingHandler(file.Loc)
	}
	return handler, nil
}

// handlerFromInit normalizes `handler = <function expression>`
func handlerFromInit(decl *ast.VarDecl) (*Handler, error) {
	fn, ok := ast.Unwrap(decl.Init).(*ast.FunctionExpr)
	if !ok {
		return nil, errors.NewHandlerNotFunction(decl.Loc, describe(decl.Init))
	}

	h := &Handler{
		Params:     fn.Params,
		ReturnType: fn.ReturnType,
		Async:      fn.Async,
		Loc:        fn.Loc,
	}
	if fn.Body != nil {
		h.Body = fn.Body.Statements
	}
	return h, nil
}

// describe names an expression kind for error messages
func describe(expr ast.ExprNode) string {
	switch expr.(type) {
	case nil:
		return "no initializer"
	case *ast.ObjectLit:
		return "object literal"
	case *ast.ArrayLit:
		return "array literal"
	case *ast.LiteralExpr, *ast.TemplateLit:
		return "literal"
	case *ast.Identifier:
		return "identifier"
	case *ast.CallExpr:
		return "call expression"
	default:
		return "expression"
	}
}
