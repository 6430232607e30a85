package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/stephendolan/chartmogul-cli/internal/api"
	"github.com/stephendolan/chartmogul-cli/internal/enrich"
)

// serverName and serverVersion identify this server in the MCP handshake.
const (
	serverName      = "chartmogul"
	serverVersion   = "1.0.0"
	protocolVersion = "2024-11-05"
)

// Server exposes ChartMogul queries as MCP tools over JSON-RPC 2.0 on stdio.
type Server struct {
	client   *api.Client
	enricher *enrich.Enricher
	logger   *zap.Logger
	tools    []toolEntry
	stdin    io.Reader
	stdout   io.Writer
}

// NewServer creates an MCP server backed by the given API client. The logger
// must write to stderr; stdout carries only protocol frames.
func NewServer(client *api.Client, logger *zap.Logger) *Server {
	return &Server{
		client:   client,
		enricher: enrich.New(client, enrich.WithLogger(logger)),
		logger:   logger,
		tools:    allTools(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
}

// Serve reads JSON-RPC messages from stdin line-by-line and writes responses
// to stdout. It blocks until stdin is closed or an unrecoverable error occurs.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.stdin)
	// Allow up to 1MB per line for large tool arguments
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(newErrorResponse(nil, ErrCodeParse, "parse error: "+err.Error()))
			continue
		}

		resp, shouldReply := s.dispatch(ctx, &req)
		if shouldReply {
			s.writeResponse(resp)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return nil
}

// dispatch routes a JSON-RPC request to the appropriate handler.
// Returns the response and whether a response should be sent (false for
// notifications).
func (s *Server) dispatch(ctx context.Context, req *Request) (Response, bool) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req), true

	case "notifications/initialized":
		return Response{}, false

	case "tools/list":
		return s.handleToolsList(req), true

	case "tools/call":
		return s.handleToolsCall(ctx, req), true

	default:
		if req.IsNotification() {
			// Notifications never get a reply.
			return Response{}, false
		}
		return newErrorResponse(req.ID, ErrCodeNoMethod, "method not found: "+req.Method), true
	}
}

func (s *Server) handleInitialize(req *Request) Response {
	result := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    serverName,
			"version": serverVersion,
		},
	}
	return newResponse(req.ID, result)
}

func (s *Server) handleToolsList(req *Request) Response {
	tools := make([]Tool, len(s.tools))
	for i, t := range s.tools {
		tools[i] = t.Tool
	}
	return newResponse(req.ID, map[string]any{"tools": tools})
}

// toolsCallParams holds the parameters for a tools/call request.
type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) Response {
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return newErrorResponse(req.ID, ErrCodeInvalidParams, "invalid params: "+err.Error())
	}

	for _, t := range s.tools {
		if t.Tool.Name == params.Name {
			s.logger.Debug("tool call", zap.String("tool", params.Name))
			result := t.Handler(ctx, s, params.Arguments)
			return newResponse(req.ID, result)
		}
	}

	return newErrorResponse(req.ID, ErrCodeNoMethod, "unknown tool: "+params.Name)
}

// writeResponse marshals a Response to JSON and writes it as a single line to
// stdout.
func (s *Server) writeResponse(resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		// Last resort: write a hard-coded error
		fmt.Fprintf(s.stdout, `{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"internal marshal error"}}`+"\n")
		return
	}
	fmt.Fprintf(s.stdout, "%s\n", data)
}
