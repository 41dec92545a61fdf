package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ios-screenshot-mcp/internal/screenshot"
)

const (
	// ServerName is reported in the initialize handshake.
	ServerName = "ios-screenshot-mcp"

	protocolVersion = "2024-11-05"

	// DefaultCaptureTimeout bounds a single get_screenshot call.
	DefaultCaptureTimeout = 60 * time.Second

	maxMessageSize = 1024 * 1024
)

// Capturer runs one capture. *screenshot.Service implements it.
type Capturer interface {
	Capture(ctx context.Context, req screenshot.Request) *screenshot.Result
}

// Options configures a Server.
type Options struct {
	Capturer Capturer
	Logger   zerolog.Logger

	// Version is reported in serverInfo. Empty selects "dev".
	Version string

	// CaptureTimeout bounds each tool call. Zero selects DefaultCaptureTimeout.
	CaptureTimeout time.Duration
}

// Server handles MCP protocol communication
type Server struct {
	capturer Capturer
	log      zerolog.Logger
	version  string
	timeout  time.Duration
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(opts Options) *Server {
	s := &Server{
		capturer: opts.Capturer,
		log:      opts.Logger,
		version:  opts.Version,
		timeout:  opts.CaptureTimeout,
	}
	if s.version == "" {
		s.version = "dev"
	}
	if s.timeout <= 0 {
		s.timeout = DefaultCaptureTimeout
	}
	return s
}

// Run reads requests from r and writes responses to w until r is exhausted
// or ctx is cancelled. Requests are handled one at a time.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		// Increase buffer size for large requests
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, maxMessageSize)

		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	encoder := json.NewEncoder(w)
	s.log.Info().Str("version", s.version).Msg("mcp server listening on stdio")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("mcp server shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}
			if len(line) == 0 {
				continue
			}

			var req MCPRequest
			if err := json.Unmarshal(line, &req); err != nil {
				s.log.Warn().Err(err).Msg("failed to parse request")
				if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
					s.log.Error().Err(err).Msg("failed to encode response")
				}
				continue
			}

			resp := s.handleRequest(ctx, &req)
			if resp != nil {
				if err := encoder.Encode(resp); err != nil {
					s.log.Error().Err(err).Msg("failed to encode response")
				}
			}
		}
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.log.Debug().Str("method", req.Method).Interface("id", req.ID).Msg("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{"resources": []interface{}{}},
		}
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools":     map[string]interface{}{},
				"resources": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": s.version,
			},
		},
	}
}

// handleToolsList returns the tool catalogue.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
