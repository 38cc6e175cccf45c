package handler

import (
	"sort"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

// structuralType is a locally declared record type: `type X = { ... }` or `interface X { ... }`
type structuralType struct {
	name    string
	members []*ast.PropertySignature
	loc     ast.SourceLocation
}

// TypeTable holds the structural types declared in one handler file
type TypeTable struct {
	types map[string]*structuralType
	order []string
	src   sourceText
}

// CollectTypes gathers every structural type alias and interface declared at the top level.
// Aliases of non-literal types (`type Id = string`) are not structural and are skipped.
func CollectTypes(file *ast.SourceFile, source string) *TypeTable {
	table := &TypeTable{
		types: make(map[string]*structuralType),
		src:   sourceText(source),
	}

	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *ast.TypeAliasDecl:
			if literal, ok := s.Type.(*ast.TypeLiteral); ok {
				table.add(&structuralType{name: s.Name, members: literal.Members, loc: s.Loc})
			}
		case *ast.InterfaceDecl:
			table.add(&structuralType{name: s.Name, members: s.Members, loc: s.Loc})
		}
	}
	return table
}

// add registers a type; a later declaration of the same name replaces the earlier one
func (t *TypeTable) add(typ *structuralType) {
	if _, exists := t.types[typ.name]; !exists {
		t.order = append(t.order, typ.name)
	}
	t.types[typ.name] = typ
}

// Names returns the declared type names, sorted
func (t *TypeTable) Names() []string {
	names := append([]string(nil), t.order...)
	sort.Strings(names)
	return names
}

// Resolve turns a request or response annotation into a TypeDefinition.
// Named references are looked up in the table; inline literals take anonymousName.
func (t *TypeTable) Resolve(node ast.TypeNode, anonymousName string) (ir.TypeDefinition, error) {
	switch n := node.(type) {
	case *ast.TypeReference:
		typ, ok := t.types[n.Name]
		if !ok || len(n.TypeArgs) > 0 {
			return ir.TypeDefinition{}, errors.NewUnresolvedType(n.Loc, t.src.text(n), t.Names())
		}
		fields, err := t.fields(typ.name, typ.members)
		if err != nil {
			return ir.TypeDefinition{}, err
		}
		return ir.TypeDefinition{Name: typ.name, Fields: fields}, nil

	case *ast.TypeLiteral:
		fields, err := t.fields(anonymousName, n.Members)
		if err != nil {
			return ir.TypeDefinition{}, err
		}
		return ir.TypeDefinition{Name: anonymousName, Fields: fields}, nil

	case *ast.ArrayType, *ast.UnionType, *ast.LiteralType:
		return ir.TypeDefinition{}, errors.NewUnresolvedType(node.Location(), t.src.text(node), t.Names()).
			WithSuggestion("Request and response types must be object types")

	default:
		return ir.TypeDefinition{}, errors.NewUnresolvedType(node.Location(), t.src.text(node), t.Names())
	}
}

// fields maps property signatures onto scalar field definitions
func (t *TypeTable) fields(typeName string, members []*ast.PropertySignature) ([]ir.FieldDefinition, error) {
	fields := make([]ir.FieldDefinition, 0, len(members))
	for _, member := range members {
		scalar, isArray, ok := scalarOf(member.Type)
		if !ok {
			actual := "unknown"
			if member.Type != nil {
				actual = t.src.text(member.Type)
			}
			return nil, errors.NewUnknownScalar(member.Loc, typeName, member.Name, actual, ir.ScalarNames())
		}
		fields = append(fields, ir.FieldDefinition{
			Name:       member.Name,
			Type:       scalar,
			IsOptional: member.Optional,
			IsArray:    isArray,
		})
	}
	return fields, nil
}

// scalarOf accepts string|number|boolean, T[] and Array<T> of those
func scalarOf(node ast.TypeNode) (scalar string, isArray bool, ok bool) {
	switch n := node.(type) {
	case *ast.TypeReference:
		if n.Name == "Array" && len(n.TypeArgs) == 1 {
			scalar, nested, ok := scalarOf(n.TypeArgs[0])
			return scalar, true, ok && !nested
		}
		if _, known := ir.ScalarTypes[n.Name]; known && len(n.TypeArgs) == 0 {
			return n.Name, false, true
		}
	case *ast.ArrayType:
		scalar, nested, ok := scalarOf(n.Element)
		return scalar, true, ok && !nested
	}
	return "", false, false
}

// unwrapPromise returns T for Promise<T>
func unwrapPromise(node ast.TypeNode) ast.TypeNode {
	if ref, ok := node.(*ast.TypeReference); ok && ref.Name == "Promise" && len(ref.TypeArgs) == 1 {
		return ref.TypeArgs[0]
	}
	return node
}
