package handler

import (
	"path/filepath"
	"strings"

	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

// AddressFromPath derives the resolver address from a <TypeName>.<fieldName>.<ext> file name
func AddressFromPath(path string) (ir.ResolverAddress, error) {
	fileName := filepath.Base(path)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	parts := strings.Split(baseName, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ir.ResolverAddress{}, errors.NewInvalidAddress(fileName, len(parts)).WithFile(path)
	}
	return ir.ResolverAddress{TypeName: parts[0], FieldName: parts[1]}, nil
}

// ResolverName returns Type.field
func ResolverName(address ir.ResolverAddress) string {
	return address.String()
}

// ResolverFileName returns the top-level resolver file name, Type.field.js
func ResolverFileName(address ir.ResolverAddress) string {
	return ResolverName(address) + ".js"
}

// FunctionFileName returns the file name of one pipeline stage, Type.field.stage.js
func FunctionFileName(address ir.ResolverAddress, functionName string) string {
	return ResolverName(address) + "." + functionName + ".js"
}
