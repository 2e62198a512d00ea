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

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/presentation/layout"
	"github.com/aretw0/mosaic/pkg/actions"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/registry"
	"github.com/aretw0/mosaic/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// DefaultWorkspace is addressed by tools called without a workspace argument.
	DefaultWorkspace = "default"

	catalogURI           = "mosaic://tools"
	workspaceURIPrefix   = "mosaic://workspaces/"
	workspaceURITemplate = workspaceURIPrefix + "{id}"
)

// PaneInfo describes one pane of a workspace.
type PaneInfo struct {
	Path    string `json:"path" jsonschema_description:"Pane address, child indices joined by ':' (empty for the root)"`
	ID      string `json:"id" jsonschema_description:"Stable pane identifier"`
	Tool    string `json:"tool" jsonschema_description:"Tool hosted by the pane"`
	Focused bool   `json:"focused" jsonschema_description:"Whether the pane holds focus"`
	State   any    `json:"state,omitempty" jsonschema_description:"State cached by the pane's tool"`
}

// WorkspaceResponse provides a unified view of a workspace after a tool call.
type WorkspaceResponse struct {
	WorkspaceID string     `json:"workspace_id" jsonschema_description:"The workspace addressed"`
	Revision    uint64     `json:"revision" jsonschema_description:"Number of effective changes so far"`
	Changed     bool       `json:"changed" jsonschema_description:"Whether the call changed the workspace"`
	Layout      string     `json:"layout" jsonschema_description:"Compact layout, e.g. row(column(open,query),home)"`
	Focus       *string    `json:"focus" jsonschema_description:"Path of the focused pane, null when none"`
	Panes       []PaneInfo `json:"panes" jsonschema_description:"Panes in layout order"`
}

// ToolInfo is one entry of the tool catalog.
type ToolInfo struct {
	Kind  domain.ToolKind `json:"kind"`
	Title string          `json:"title"`
}

// Server exposes workspaces kept by a session.Manager as an MCP Server.
type Server struct {
	manager   *session.Manager
	catalog   []ToolInfo
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithCatalog replaces the tool catalog, e.g. with the kinds of a host registry.
func WithCatalog[W any](reg *registry.Registry[W]) Option {
	return func(s *Server) {
		s.catalog = s.catalog[:0]
		for _, t := range reg.Tools() {
			s.catalog = append(s.catalog, ToolInfo{Kind: t.Kind, Title: t.Title})
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager: manager,
		logger:  slog.Default(),
		mcpServer: server.NewMCPServer("mosaic-mcp", strings.TrimSpace(mosaic.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, kind := range domain.BuiltinTools() {
		s.catalog = append(s.catalog, ToolInfo{Kind: kind, Title: registry.DefaultTitle(kind)})
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func workspaceArg() mcp.ToolOption {
	return mcp.WithString("workspace", mcp.Description("Workspace ID (defaults to \""+DefaultWorkspace+"\")"))
}

func pathArg(desc string, required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{mcp.Description(desc + ". Child indices joined by ':', empty for the root")}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithString("path", opts...)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_workspace",
		mcp.WithDescription("Get the layout, panes and focus of a workspace, creating it with a single pane if needed."),
		workspaceArg(),
		mcp.WithOutputSchema[WorkspaceResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetWorkspace))

	s.mcpServer.AddTool(mcp.NewTool("split_pane",
		mcp.WithDescription("Split a pane, opening a new pane with the given tool next to it."),
		workspaceArg(),
		pathArg("Pane to split", true),
		mcp.WithString("axis", mcp.Required(), mcp.Enum("row", "column"),
			mcp.Description("row puts the new pane to the right, column below")),
		mcp.WithString("tool", mcp.Description("Tool of the new pane (defaults to the tool picker)")),
		mcp.WithOutputSchema[WorkspaceResponse](),
	), mcp.NewStructuredToolHandler(s.handleSplit))

	s.mcpServer.AddTool(mcp.NewTool("close_pane",
		mcp.WithDescription("Close a pane or a whole split. Closing the last pane leaves a fresh default pane."),
		workspaceArg(),
		pathArg("Node to close", true),
		mcp.WithOutputSchema[WorkspaceResponse](),
	), mcp.NewStructuredToolHandler(s.handleClose))

	s.mcpServer.AddTool(mcp.NewTool("replace_tool",
		mcp.WithDescription("Replace the tool hosted by a pane. The pane keeps its identity."),
		workspaceArg(),
		pathArg("Pane to change", true),
		mcp.WithString("tool", mcp.Required(), mcp.Description("New tool kind")),
		mcp.WithOutputSchema[WorkspaceResponse](),
	), mcp.NewStructuredToolHandler(s.handleReplaceTool))

	s.mcpServer.AddTool(mcp.NewTool("focus_pane",
		mcp.WithDescription("Focus a pane. Without a path, focus is cleared."),
		workspaceArg(),
		pathArg("Pane to focus", false),
		mcp.WithOutputSchema[WorkspaceResponse](),
	), mcp.NewStructuredToolHandler(s.handleFocus))

	s.mcpServer.AddTool(mcp.NewTool("move_focus",
		mcp.WithDescription("Move focus to the neighbouring pane in a direction."),
		workspaceArg(),
		mcp.WithString("direction", mcp.Required(), mcp.Enum("left", "right", "up", "down")),
		pathArg("Pane to move from (defaults to the focused pane)", false),
		mcp.WithOutputSchema[WorkspaceResponse](),
	), mcp.NewStructuredToolHandler(s.handleMoveFocus))

	s.mcpServer.AddTool(mcp.NewTool("cache_state",
		mcp.WithDescription("Store state for the tool of a pane. JSON values are decoded, anything else is kept as text."),
		workspaceArg(),
		pathArg("Pane owning the state", true),
		mcp.WithString("value", mcp.Required(), mcp.Description("State to store")),
		mcp.WithOutputSchema[WorkspaceResponse](),
	), mcp.NewStructuredToolHandler(s.handleCacheState))
}

// Handler methods for structured tools

func (s *Server) handleGetWorkspace(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (WorkspaceResponse, error) {
	id := workspaceID(args)
	snap, created, err := s.manager.LoadOrStart(ctx, id)
	if err != nil {
		return WorkspaceResponse{}, fmt.Errorf("get workspace failed: %w", err)
	}
	return s.describe(snap, created), nil
}

func (s *Server) handleSplit(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (WorkspaceResponse, error) {
	tool := args["tool"]
	if tool == nil || tool == "" {
		tool = string(domain.DefaultTool)
	}
	return s.apply(ctx, args, map[string]any{
		"op":   string(domain.OpSplit),
		"path": args["path"],
		"axis": args["axis"],
		"tool": tool,
	})
}

func (s *Server) handleClose(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (WorkspaceResponse, error) {
	return s.apply(ctx, args, map[string]any{
		"op":   string(domain.OpClose),
		"path": args["path"],
	})
}

func (s *Server) handleReplaceTool(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (WorkspaceResponse, error) {
	return s.apply(ctx, args, map[string]any{
		"op":   string(domain.OpReplaceTool),
		"path": args["path"],
		"tool": args["tool"],
	})
}

func (s *Server) handleFocus(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (WorkspaceResponse, error) {
	if _, ok := args["path"]; !ok {
		return s.apply(ctx, args, map[string]any{"op": string(domain.OpClearFocus)})
	}
	return s.apply(ctx, args, map[string]any{
		"op":   string(domain.OpRequestFocus),
		"path": args["path"],
	})
}

func (s *Server) handleMoveFocus(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (WorkspaceResponse, error) {
	from := args["path"]
	if from == nil {
		snap, err := s.manager.Load(ctx, workspaceID(args))
		if err != nil {
			return WorkspaceResponse{}, fmt.Errorf("move focus failed: %w", err)
		}
		p, ok := snap.Focus.Get()
		if !ok {
			return WorkspaceResponse{}, errors.New("move focus failed: no pane is focused and no path was given")
		}
		from = p.Key()
	}
	return s.apply(ctx, args, map[string]any{
		"op":        string(domain.OpMoveFocus),
		"path":      from,
		"direction": args["direction"],
	})
}

func (s *Server) handleCacheState(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (WorkspaceResponse, error) {
	value := args["value"]
	if text, ok := value.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err == nil {
			value = decoded
		}
	}
	return s.apply(ctx, args, map[string]any{
		"op":    string(domain.OpCacheState),
		"path":  args["path"],
		"value": value,
	})
}

// apply decodes payload into an action and applies it to the workspace named in args.
func (s *Server) apply(ctx context.Context, args map[string]any, payload map[string]any) (WorkspaceResponse, error) {
	action, err := actions.Decode(payload)
	if err != nil {
		s.logger.Warn("MCP: action rejected", "error", err)
		return WorkspaceResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	id := workspaceID(args)
	if _, _, err := s.manager.LoadOrStart(ctx, id); err != nil {
		return WorkspaceResponse{}, fmt.Errorf("%s failed: %w", action.Op, err)
	}
	snap, diff, err := s.manager.Apply(ctx, id, action)
	if err != nil {
		return WorkspaceResponse{}, fmt.Errorf("%s failed: %w", action.Op, err)
	}
	return s.describe(snap, diff != nil), nil
}

func (s *Server) describe(snap *domain.Snapshot, changed bool) WorkspaceResponse {
	resp := WorkspaceResponse{
		WorkspaceID: snap.WorkspaceID,
		Revision:    snap.Revision,
		Changed:     changed,
		Layout:      layout.Compact(snap.Root),
		Panes:       []PaneInfo{},
	}
	if p, ok := snap.Focus.Get(); ok {
		key := p.Key()
		resp.Focus = &key
	}
	for _, ref := range domain.Leaves(snap.Root) {
		info := PaneInfo{
			Path:    ref.Path.Key(),
			ID:      string(ref.Leaf.ID),
			Tool:    string(ref.Leaf.Tool),
			Focused: snap.Focus.Is(ref.Path),
		}
		if v, ok := s.manager.Engine().CachedState(snap, ref.Path); ok {
			info.State = v
		}
		resp.Panes = append(resp.Panes, info)
	}
	return resp
}

func workspaceID(args map[string]any) string {
	if id, ok := args["workspace"].(string); ok && id != "" {
		return id
	}
	return DefaultWorkspace
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(catalogURI, "Tool Catalog",
		mcp.WithResourceDescription("Tool kinds a pane can host"),
		mcp.WithMIMEType("application/json"),
	), s.readCatalog)

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(workspaceURITemplate, "Workspace Snapshot",
		mcp.WithTemplateDescription("Full snapshot of a workspace: layout tree, state cache and focus"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readWorkspace)
}

func (s *Server) readCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readWorkspace(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, workspaceURIPrefix)
	if id == "" || id == uri {
		return nil, fmt.Errorf("invalid workspace uri %q", uri)
	}
	snap, err := s.manager.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	jsonBytes, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
