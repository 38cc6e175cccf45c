// Package handler walks a validated resolver handler file and assembles its IR:
// the resolver address, request and response types, the data sources the handler
// acquires and the ordered pipeline stages its body splits into.
package handler

import (
	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
	"github.com/resolverkit/resolverkit/internal/compiler/validator"
)

// Parse assembles the ParsedResolver for one handler file.
// path supplies the resolver address; source must be the text file was parsed from.
func Parse(path, source string, file *ast.SourceFile, validated *validator.Result) (*ir.ParsedResolver, error) {
	address, err := AddressFromPath(path)
	if err != nil {
		return nil, err
	}

	h := validated.Handler
	if len(h.Params) != 1 {
		return nil, errors.NewHandlerParameters(h.Loc, len(h.Params))
	}
	param := h.Params[0]
	if param.Type == nil {
		return nil, errors.NewMissingTypeAnnotation(param.Loc, "request")
	}
	if h.ReturnType == nil {
		return nil, errors.NewMissingTypeAnnotation(h.Loc, "response")
	}

	types := CollectTypes(file, source)
	requestType, err := types.Resolve(param.Type, ir.AnonymousRequestType)
	if err != nil {
		return nil, err
	}
	responseType, err := types.Resolve(unwrapPromise(h.ReturnType), ir.AnonymousResponseType)
	if err != nil {
		return nil, err
	}

	walker := newStageWalker(validated.HelperName, source)
	if err := walker.walk(h.Body); err != nil {
		return nil, err
	}

	return &ir.ParsedResolver{
		Address:               address,
		ReferencedDataSources: walker.refs,
		PipelineFunctions:     bindStages(walker.stages, param, walker.src),
		RequestType:           requestType,
		ResponseType:          responseType,
		Source:                path,
		TrailingStatements:    walker.trailing(),
	}, nil
}
