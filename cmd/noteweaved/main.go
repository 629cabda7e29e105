// Command noteweaved is the long-running counterpart to noteweave: it
// opens a workspace, keeps it live via pkg/workspace's fsnotify watcher,
// and serves the MCP tool server (pkg/mcpserver) over stdio so an LLM
// agent session can drive the same core the batch CLI does. Grounded on
// the teacher's cmd/tap/tap.go entrypoint shape and editor_live.go's
// watch-loop lifetime.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jlrickert/cli-toolkit/toolkit"

	"github.com/jlrickert/noteweave/internal/obslog"
	"github.com/jlrickert/noteweave/pkg/mcpserver"
	"github.com/jlrickert/noteweave/pkg/workspace"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg := obslog.NewLogger(obslog.Config{Version: "dev", Level: obslog.ParseLevel("info")})
	ctx = obslog.ContextWithLogger(ctx, lg)

	rt, err := toolkit.NewRuntime()
	if err != nil {
		lg.Error("noteweaved: runtime init failed", "error", err)
		os.Exit(1)
	}
	wd, err := rt.Getwd()
	if err != nil {
		lg.Error("noteweaved: getwd failed", "error", err)
		os.Exit(1)
	}

	ws, err := workspace.Open(ctx, rt, wd, nil)
	if err != nil {
		lg.Error("noteweaved: open workspace failed", "error", err)
		os.Exit(1)
	}

	stopWatch, err := ws.Watch(ctx)
	if err != nil {
		lg.Error("noteweaved: watch failed", "error", err)
		os.Exit(1)
	}
	defer stopWatch()

	srv := mcpserver.New(ws)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		lg.Error("noteweaved: mcp server exited", "error", err)
		os.Exit(1)
	}
}
