package lsp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/resolverkit/resolverkit/internal/compiler/build"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
)

// DiagnosticSource labels every diagnostic this server publishes
const DiagnosticSource = "resolverkit"

// Documents holds the latest text of each open document
type Documents struct {
	mu   sync.RWMutex
	text map[protocol.DocumentURI]string
}

// NewDocuments creates an empty document store
func NewDocuments() *Documents {
	return &Documents{text: make(map[protocol.DocumentURI]string)}
}

// Set records the current text of a document
func (d *Documents) Set(uri protocol.DocumentURI, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text[uri] = text
}

// Get returns the current text of a document
func (d *Documents) Get(uri protocol.DocumentURI) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	text, ok := d.text[uri]
	return text, ok
}

// Close forgets a document
func (d *Documents) Close(uri protocol.DocumentURI) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.text, uri)
}

// Len returns the number of open documents
func (d *Documents) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.text)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse didOpen params")
	}

	doc := params.TextDocument
	s.docs.Set(doc.URI, doc.Text)
	s.logger.Debug("document opened", zap.String("uri", string(doc.URI)))

	s.publish(ctx, doc.URI, doc.Text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse didChange params")
	}
	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// Full sync: the last change carries the whole document.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.docs.Set(params.TextDocument.URI, text)

	s.publish(ctx, params.TextDocument.URI, text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse didSave params")
	}

	text := params.Text
	if text == "" {
		text, _ = s.docs.Get(params.TextDocument.URI)
	} else {
		s.docs.Set(params.TextDocument.URI, text)
	}

	s.publish(ctx, params.TextDocument.URI, text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse didClose params")
	}

	s.docs.Close(params.TextDocument.URI)
	s.publishDiagnostics(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return reply(ctx, nil, nil)
}

func (s *Server) publish(ctx context.Context, uri protocol.DocumentURI, text string) {
	s.publishDiagnostics(ctx, uri, s.Diagnose(uri.Filename(), text))
}

func (s *Server) publishDiagnostics(ctx context.Context, uri protocol.DocumentURI, diagnostics []protocol.Diagnostic) {
	if s.client == nil {
		return
	}
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Warn("publish diagnostics failed", zap.String("uri", string(uri)), zap.Error(err))
	}
}

// Diagnose compiles one handler and converts its errors to diagnostics.
// The resolver address comes from the file's base name, so the path must
// keep the <Type>.<field>.ts shape.
func (s *Server) Diagnose(path, text string) []protocol.Diagnostic {
	_, err := s.compiler.CompileSource(build.Source{Path: filepath.Base(path), Content: text})
	if err == nil {
		return []protocol.Diagnostic{}
	}

	list := errors.Collect(err)
	if len(list) == 0 {
		s.logger.Warn("compile failed without diagnostics", zap.String("file", path), zap.Error(err))
		return []protocol.Diagnostic{{
			Range:    protocol.Range{},
			Severity: protocol.DiagnosticSeverityError,
			Source:   DiagnosticSource,
			Message:  err.Error(),
		}}
	}

	lines := strings.Split(text, "\n")
	diagnostics := make([]protocol.Diagnostic, 0, len(list))
	for _, e := range list {
		diagnostics = append(diagnostics, toDiagnostic(e, lines))
	}
	return diagnostics
}

// toDiagnostic maps a 1-based compiler location to a 0-based LSP range that
// runs to the end of the offending line. Errors without a line, such as a
// bad file name, get an empty range at the top of the document.
func toDiagnostic(e *errors.CompilerError, lines []string) protocol.Diagnostic {
	var rng protocol.Range
	if e.Location.Line > 0 {
		line := e.Location.Line - 1
		start := max(e.Location.Column-1, 0)
		end := start
		if line < len(lines) {
			end = max(len([]rune(strings.TrimRight(lines[line], "\r"))), start)
		}
		rng = protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
		}
	}

	message := e.Message
	if e.Suggestion != "" {
		message += "\n" + e.Suggestion
	}

	return protocol.Diagnostic{
		Range:    rng,
		Severity: convertSeverity(e.Severity),
		Code:     string(e.Code),
		Source:   DiagnosticSource,
		Message:  message,
	}
}

func convertSeverity(severity errors.ErrorSeverity) protocol.DiagnosticSeverity {
	if severity == errors.SeverityWarning {
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}
