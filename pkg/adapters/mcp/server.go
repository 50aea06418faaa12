// Package mcp exposes the intent runner as a Model Context Protocol server,
// so an assistant can drive the instrument with the same intents a voice
// platform publishes.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmwilson/ollie"
	"github.com/jmwilson/ollie/pkg/adapters/hermes"
	"github.com/jmwilson/ollie/pkg/backend"
	"github.com/jmwilson/ollie/pkg/dispatch"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	CapabilitiesURI = "ollie://capabilities"
	OperationsURI   = "ollie://operations"
)

// DispatchArgs are the arguments of the dispatch_intent tool.
type DispatchArgs struct {
	Name      string `json:"name"`
	Slots     string `json:"slots,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// DispatchResponse aligns with the HTTP DispatchResult and provides a unified structure across adapters.
type DispatchResponse struct {
	Intent  string `json:"intent" jsonschema_description:"The dispatched intent name"`
	Outcome string `json:"outcome" jsonschema_description:"ignored, applied or boundary_reached"`
	Error   string `json:"error,omitempty" jsonschema_description:"Why the intent was not applied"`
}

// OperationLister reports the intent names a dispatcher maps.
type OperationLister interface {
	Operations() []string
}

// Server wraps the intent runner and exposes it as an MCP Server.
type Server struct {
	submitter  ports.IntentSubmitter
	operations OperationLister
	dialect    domain.Dialect
	logger     *slog.Logger
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP Server instance for a runner bound to dialect.
func NewServer(sub ports.IntentSubmitter, ops OperationLister, dialect domain.Dialect, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		submitter:  sub,
		operations: ops,
		dialect:    dialect,
		logger:     logger,
		mcpServer:  server.NewMCPServer("ollie-mcp", strings.TrimSpace(ollie.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		baseURL = "http://localhost" + addr
	}

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: dispatch_intent
	dispatchTool := mcp.NewTool("dispatch_intent",
		mcp.WithDescription("Send one oscilloscope intent to the bound instrument, e.g. name=measure with slots "+
			`[{"slotName":"type","value":"frequency"},{"slotName":"source","value":"channel one"}].`),
		mcp.WithString("name", mcp.Required(), mcp.Description("Intent name, e.g. setTimebaseScale")),
		mcp.WithString("slots", mcp.Description(`JSON array of {"slotName": ..., "value": ...} (optional)`)),
		mcp.WithString("session_id", mcp.Description("Dialogue session the intent belongs to (optional)")),
		mcp.WithOutputSchema[DispatchResponse](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	// TOOL: list_operations
	s.mcpServer.AddTool(mcp.NewTool("list_operations",
		mcp.WithDescription("List the intent names the instrument understands and the slots each takes."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(dispatch.Contracts(s.operations.Operations()))
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_capabilities
	s.mcpServer.AddTool(mcp.NewTool("get_capabilities",
		mcp.WithDescription("Show which operations a dialect supports. Defaults to the bound dialect."),
		mcp.WithString("dialect", mcp.Description("keysight, keysight-legacy or rigol (optional)")),
	), s.handleCapabilities)
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args DispatchArgs) (DispatchResponse, error) {
	rec := hermes.Record{Name: args.Name, SessionID: args.SessionID}
	if args.Slots != "" {
		if err := json.Unmarshal([]byte(args.Slots), &rec.Slots); err != nil {
			return DispatchResponse{}, fmt.Errorf("slots must be a JSON array: %w", err)
		}
	}
	in, err := rec.Intent()
	if err != nil {
		return DispatchResponse{}, err
	}

	outcome, err := s.submitter.Submit(ctx, in)
	res := DispatchResponse{Intent: in.Name, Outcome: outcome.String()}
	if err != nil {
		if errors.Is(err, domain.ErrQueueClosed) {
			return DispatchResponse{}, err
		}
		s.logger.Warn("MCP Dispatch: intent failed", "intent", in.Name, "error", err)
		res.Error = err.Error()
	}
	return res, nil
}

func (s *Server) handleCapabilities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dialect := s.dialect
	if name := request.GetString("dialect", ""); name != "" {
		d, err := domain.ParseDialect(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dialect = d
	}
	caps, err := backend.Capabilities(dialect)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonBytes, _ := json.Marshal(caps)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: ollie://capabilities
	s.mcpServer.AddResource(mcp.NewResource(CapabilitiesURI, "Capability Matrix",
		mcp.WithResourceDescription("Support level of every operation per dialect"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(backend.Matrix())
		if err != nil {
			return nil, fmt.Errorf("failed to encode capabilities: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CapabilitiesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: ollie://operations
	s.mcpServer.AddResource(mcp.NewResource(OperationsURI, "Intent Names",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(dispatch.Contracts(s.operations.Operations()))
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      OperationsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
