// Package mcpserver exposes a workspace's read-only graph queries and
// action catalog as Model Context Protocol tools, SPEC_FULL.md's
// supplemented interface alongside the LSP adapter and CLI: "so LLM agents
// can drive the same core the LSP and CLI do." It is grounded on
// github.com/modelcontextprotocol/go-sdk, a dependency already declared in
// the teacher's go.mod but never itself exercised there.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jlrickert/noteweave/pkg/action"
	"github.com/jlrickert/noteweave/pkg/export"
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/paths"
	"github.com/jlrickert/noteweave/pkg/workspace"
)

// Server wraps a workspace and the *mcp.Server registered against it.
type Server struct {
	ws  *workspace.Workspace
	mcp *mcp.Server
}

// New builds the tool server for ws, registering every tool up front.
func New(ws *workspace.Workspace) *Server {
	s := &Server{
		ws: ws,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "noteweave",
			Version: "0.1.0",
		}, nil),
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "paths",
		Description: "Enumerate every root-to-leaf path through the note graph, following sub-sections and up to depth cross-document references.",
	}, s.handlePaths)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "contents",
		Description: "Render the table of contents: every document key and its rendered title, one per line.",
	}, s.handleContents)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "squash",
		Description: "Render a document with its referenced documents inlined up to depth levels.",
	}, s.handleSquash)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "stats",
		Description: "Compute workspace statistics: document/section/reference counts, orphans, and the most-referenced documents.",
	}, s.handleStats)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "actions",
		Description: "List every catalog action applicable to a document key, evaluated at the document's root node.",
	}, s.handleActions)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve and apply a named catalog action against a document key, writing the resulting changes back to the workspace.",
	}, s.handleResolve)
	return s
}

// Run serves the registered tools over transport until ctx is canceled or
// the transport's session ends.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// PathsArgs is the input for the "paths" tool.
type PathsArgs struct {
	Depth int `json:"depth" jsonschema:"Cross-document reference hop bound; 0 follows sections only."`
}

func (s *Server) handlePaths(ctx context.Context, req *mcp.CallToolRequest, args PathsArgs) (*mcp.CallToolResult, any, error) {
	g := s.ws.Graph()
	var out string
	for _, p := range paths.Enumerate(g, args.Depth) {
		out += p.String() + "\n"
	}
	return textResult(out), nil, nil
}

// ContentsArgs is the input for the "contents" tool; it takes no fields but
// is kept as a named struct so the tool's schema stays self-describing.
type ContentsArgs struct{}

func (s *Server) handleContents(ctx context.Context, req *mcp.CallToolRequest, args ContentsArgs) (*mcp.CallToolResult, any, error) {
	out, err := export.Contents(ctx, s.ws.Graph(), s.ws.Writer())
	if err != nil {
		return nil, nil, err
	}
	return textResult(out), nil, nil
}

// SquashArgs is the input for the "squash" tool.
type SquashArgs struct {
	Key   string `json:"key" jsonschema:"The document key to render."`
	Depth int    `json:"depth" jsonschema:"How many levels of referenced documents to inline."`
}

func (s *Server) handleSquash(ctx context.Context, req *mcp.CallToolRequest, args SquashArgs) (*mcp.CallToolResult, any, error) {
	out, err := export.Squash(ctx, s.ws.Graph(), s.ws.Writer(), graph.Key(args.Key), args.Depth)
	if err != nil {
		return nil, nil, err
	}
	return textResult(out), nil, nil
}

// StatsArgs is the input for the "stats" tool; no fields needed.
type StatsArgs struct{}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, args StatsArgs) (*mcp.CallToolResult, any, error) {
	stats := export.Compute(s.ws.Graph())
	rendered, err := stats.Render()
	if err != nil {
		return nil, nil, err
	}
	return textResult(rendered), nil, nil
}

// ActionsArgs is the input for the "actions" tool.
type ActionsArgs struct {
	Key string `json:"key" jsonschema:"The document key to list applicable actions for."`
}

func (s *Server) handleActions(ctx context.Context, req *mcp.CallToolRequest, args ActionsArgs) (*mcp.CallToolResult, any, error) {
	g := s.ws.Graph()
	root, ok := g.DocumentID(graph.Key(args.Key))
	if !ok {
		return nil, nil, fmt.Errorf("mcpserver: %w: %s", graph.ErrKeyUnknown, args.Key)
	}
	handles := s.ws.Applicable(action.Request{Key: graph.Key(args.Key), TargetID: root})
	out := ""
	for _, h := range handles {
		out += fmt.Sprintf("%s\t%s\n", h.Kind, h.Title)
	}
	return textResult(out), nil, nil
}

// ResolveArgs is the input for the "resolve" tool.
type ResolveArgs struct {
	ActionID string `json:"action_id" jsonschema:"The catalog action id (refactor.* kind or custom.* name) to resolve."`
	Key      string `json:"key" jsonschema:"The document key the action targets."`
}

func (s *Server) handleResolve(ctx context.Context, req *mcp.CallToolRequest, args ResolveArgs) (*mcp.CallToolResult, any, error) {
	g := s.ws.Graph()
	root, ok := g.DocumentID(graph.Key(args.Key))
	if !ok {
		return nil, nil, fmt.Errorf("mcpserver: %w: %s", graph.ErrKeyUnknown, args.Key)
	}
	changes, err := s.ws.Resolve(ctx, args.ActionID, action.Request{Key: graph.Key(args.Key), TargetID: root})
	if err != nil {
		return nil, nil, err
	}
	if err := s.ws.Apply(ctx, changes); err != nil {
		return nil, nil, err
	}
	out := fmt.Sprintf("applied %d change(s)\n", len(changes))
	return textResult(out), nil, nil
}

func textResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s}},
	}
}
