// Package lsp serves compiler diagnostics for handler files over the
// Language Server Protocol.
package lsp

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/resolverkit/resolverkit/internal/compiler/build"
)

// ServerName is reported to clients in the initialize result
const ServerName = "resolverkit-lsp"

// Server is a diagnostics-only language server for resolver handlers
type Server struct {
	compiler *build.Compiler
	docs     *Documents
	logger   *zap.Logger
	version  string

	conn   jsonrpc2.Conn
	client protocol.Client

	mu            sync.Mutex
	workspaceRoot string
	cancel        context.CancelFunc

	capabilities protocol.ServerCapabilities
}

// NewServer creates a language server that checks documents with compiler
func NewServer(compiler *build.Compiler, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		compiler: compiler,
		docs:     NewDocuments(),
		logger:   logger,
		version:  version,
		capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save: &protocol.SaveOptions{
					IncludeText: true,
				},
			},
		},
	}
}

// Run serves stdin/stdout until the client exits or ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, stdrwc{})
}

// Serve speaks JSON-RPC over rwc until the client exits or ctx is cancelled
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.logger.Info("starting language server")

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn = conn
	s.client = protocol.ClientDispatcher(conn, s.logger.Named("client"))

	conn.Go(ctx, s.handler())

	select {
	case <-ctx.Done():
	case <-conn.Done():
	}

	s.logger.Info("shutting down language server")
	return conn.Close()
}

// WorkspaceRoot returns the root reported by the client, if any
func (s *Server) WorkspaceRoot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaceRoot
}

func (s *Server) handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.logger.Debug("request", zap.String("method", req.Method()))

		switch req.Method() {
		case protocol.MethodInitialize:
			return s.handleInitialize(ctx, reply, req)
		case protocol.MethodInitialized:
			return reply(ctx, nil, nil)
		case protocol.MethodShutdown:
			return reply(ctx, nil, nil)
		case protocol.MethodExit:
			return s.handleExit(ctx, reply)
		case protocol.MethodTextDocumentDidOpen:
			return s.handleDidOpen(ctx, reply, req)
		case protocol.MethodTextDocumentDidChange:
			return s.handleDidChange(ctx, reply, req)
		case protocol.MethodTextDocumentDidSave:
			return s.handleDidSave(ctx, reply, req)
		case protocol.MethodTextDocumentDidClose:
			return s.handleDidClose(ctx, reply, req)
		default:
			return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
		}
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse initialize params")
	}

	root := ""
	switch {
	case len(params.WorkspaceFolders) > 0:
		root = uri.URI(params.WorkspaceFolders[0].URI).Filename()
	case params.RootURI != "":
		root = params.RootURI.Filename()
	default:
		root = params.RootPath
	}

	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()
	s.logger.Info("client initialized", zap.String("workspace", root))

	return reply(ctx, protocol.InitializeResult{
		Capabilities: s.capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    ServerName,
			Version: s.version,
		},
	}, nil)
}

func (s *Server) handleExit(ctx context.Context, reply jsonrpc2.Replier) error {
	if err := reply(ctx, nil, nil); err != nil {
		s.logger.Warn("reply to exit failed", zap.Error(err))
	}

	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

func replyWithError(ctx context.Context, reply jsonrpc2.Replier, code jsonrpc2.Code, message string) error {
	return reply(ctx, nil, &jsonrpc2.Error{Code: code, Message: message})
}

// stdrwc joins stdin and stdout into one stream
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
