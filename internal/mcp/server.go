// Package mcp exposes the document operation registry to AI agents over
// the Model Context Protocol on stdio. Each registry operation becomes
// one tool; hwp_execute_batch submits an ordered step list in a single
// call. Tool calls are funneled through the batch executor, which keeps
// dispatch strictly sequential against the shared document cursor.
package mcp

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl"
)

// Server bridges MCP tool calls onto one document session.
type Server struct {
	sess   *hwpctl.Session
	exec   *hwpctl.Executor
	srv    *server.MCPServer
	logger *slog.Logger

	// docID is the server-assigned handle ID of the current document,
	// rotated on every successful create/open so agents can detect that
	// earlier table references died with the previous document.
	docID string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New builds an MCP server over a session. Version is reported to clients.
func New(sess *hwpctl.Session, version string, opts ...Option) *Server {
	s := &Server{
		sess:   sess,
		exec:   hwpctl.NewExecutor(sess),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = server.NewMCPServer("hwpctl", version,
		server.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// Serve connects the session and serves MCP over stdio until the client
// disconnects. A reachable host is required up front: agents get a clear
// startup failure instead of a wall of per-tool connection errors.
func (s *Server) Serve() error {
	if err := s.sess.Connect(); err != nil {
		return err
	}
	defer s.sess.Close()
	s.logger.Info("mcp server ready", "operations", len(hwpctl.Operations()))
	return server.ServeStdio(s.srv)
}

// runStep executes one operation through the batch executor and renders
// the step result as a tool payload.
func (s *Server) runStep(op string, params map[string]any) (string, bool) {
	res := s.exec.Run([]hwpctl.Step{{Operation: op, Params: params}})[0]
	if !res.Success {
		return res.ErrorDetail, false
	}
	if op == "hwp_create" || op == "hwp_open" {
		s.docID = uuid.NewString()
	}
	payload := map[string]any{"success": true}
	if res.Result != nil {
		payload["result"] = res.Result
	}
	if s.docID != "" {
		payload["document_id"] = s.docID
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return err.Error(), false
	}
	return string(out), true
}
