// Package workspace is the filesystem-backed document source (spec.md §1's
// "CLI argument parsing, file I/O ... out of scope" collaborator): it owns
// one live graph.Graph for a workspace root, loads it from `.md` files
// through toolkit.Runtime, and applies patch.Change sets back to disk. The
// CLI, LSP, and MCP adapters all sit on top of this one type.
//
// Concurrency follows SPEC_FULL's Open Question (a) resolution: reads take
// an RLock, mutating operations (UpdateDocument, Apply) take a Lock, the
// same split the reference CLI's MemoryRepo uses for its maps. Rename only
// computes a change set and takes an RLock.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jlrickert/cli-toolkit/toolkit"

	"github.com/jlrickert/noteweave/internal/obslog"
	"github.com/jlrickert/noteweave/pkg/action"
	"github.com/jlrickert/noteweave/pkg/config"
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/llm"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/markdown/goldmarkreader"
	"github.com/jlrickert/noteweave/pkg/markdown/mdwriter"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/rename"
	"github.com/jlrickert/noteweave/pkg/sections"
)

// ConfigDir and ConfigFile locate spec.md §6.1's workspace layout:
// "Root directory contains a `.iwe/` directory with `config.toml`."
const (
	ConfigDir  = ".iwe"
	ConfigFile = "config.toml"
)

// Workspace aggregates one workspace root's configuration, live content
// graph, and action catalog behind a single RWMutex.
type Workspace struct {
	mu sync.RWMutex

	root   string
	rt     *toolkit.Runtime
	reader markdown.Reader
	writer markdown.Writer

	cfg     config.Config
	g       *graph.Graph
	catalog *action.Catalog
}

// Open loads root's `.iwe/config.toml` (if present) and imports every `.md`
// file under root into a fresh graph, per-key parsing done in parallel
// (spec.md §5 "per-key parsing is data-parallel"), the sections-builder
// phase sequential over keys since it allocates into the shared arena.
func Open(ctx context.Context, rt *toolkit.Runtime, root string, fn llm.Func) (*Workspace, error) {
	cfg, err := loadConfig(rt, root)
	if err != nil {
		return nil, err
	}

	w := &Workspace{
		root:   root,
		rt:     rt,
		reader: goldmarkreader.New(),
		writer: mdwriter.New(),
		cfg:    cfg,
	}
	w.catalog = action.NewCatalog(cfg.Actions, cfg.Models, fn, w.today)

	if err := w.reload(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Init writes a fresh `.iwe/config.toml` with defaults, spec.md §6.2's
// `init` command. It does not overwrite an existing config file.
func Init(rt *toolkit.Runtime, root string) error {
	dir := filepath.Join(root, ConfigDir)
	if err := rt.Mkdir(dir, 0o755, true); err != nil {
		return fmt.Errorf("workspace: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, ConfigFile)
	if _, err := rt.Stat(path, false); err == nil {
		return fmt.Errorf("workspace: %s already exists", path)
	}
	if err := rt.WriteFile(path, []byte(config.DefaultTOML), 0o644); err != nil {
		return fmt.Errorf("workspace: write %s: %w", path, err)
	}
	return nil
}

// NewInMemory builds a Workspace around g with no backing toolkit.Runtime:
// Apply folds changes into g without touching any filesystem. It exists for
// adapter-level tests (pkg/lsp, pkg/mcpserver) that exercise a full
// resolve-then-apply round trip without a real workspace root on disk.
func NewInMemory(cfg config.Config, g *graph.Graph, fn llm.Func) *Workspace {
	w := &Workspace{
		reader: goldmarkreader.New(),
		writer: mdwriter.New(),
		cfg:    cfg,
		g:      g,
	}
	w.catalog = action.NewCatalog(cfg.Actions, cfg.Models, fn, w.today)
	return w
}

func loadConfig(rt *toolkit.Runtime, root string) (config.Config, error) {
	path := filepath.Join(root, ConfigDir, ConfigFile)
	raw, err := rt.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.Parse(nil)
		}
		return config.Config{}, fmt.Errorf("workspace: read %s: %w", path, err)
	}
	return config.Parse(raw)
}

func (w *Workspace) today() string {
	if w.rt == nil {
		return time.Now().UTC().Format("2006-01-02")
	}
	return w.rt.Clock().Now().UTC().Format("2006-01-02")
}

// Reload re-imports every document under root into a fresh graph, the
// `normalize` CLI command and the LSP's `didChangeWatchedFiles` handler's
// fallback path for changes the adapter can't incrementally apply.
func (w *Workspace) Reload(ctx context.Context) error {
	return w.reload(ctx)
}

// reload re-imports every document under root into a fresh graph. Callers
// must already hold no lock; reload takes the write lock itself.
func (w *Workspace) reload(ctx context.Context) error {
	keys, err := w.discoverKeys()
	if err != nil {
		return err
	}

	type parsed struct {
		key graph.Key
		doc *markdown.Document
		err error
	}
	results := make([]parsed, len(keys))
	var wg sync.WaitGroup
	for i, k := range keys {
		wg.Add(1)
		go func(i int, k graph.Key) {
			defer wg.Done()
			raw, readErr := w.rt.ReadFile(filepath.Join(w.root, k.FileName()))
			if readErr != nil {
				results[i] = parsed{key: k, err: readErr}
				return
			}
			doc, parseErr := w.reader.Parse(ctx, raw)
			results[i] = parsed{key: k, doc: doc, err: parseErr}
		}(i, k)
	}
	wg.Wait()

	g := graph.New(w.cfg.GraphOptions())
	for _, r := range results {
		if r.err != nil {
			obslog.FromContext(ctx).Warn("workspace: skipping unreadable document", "key", r.key, "error", r.err)
			continue
		}
		sections.Build(g, r.key, r.doc)
	}
	g.RefIndex().Rebuild(g.Arena(), g.Lines())

	w.mu.Lock()
	w.g = g
	w.mu.Unlock()
	return nil
}

// discoverKeys walks root for every `.md` file, skipping ConfigDir, and
// returns their keys sorted so import order (and therefore node ids) is
// reproducible.
func (w *Workspace) discoverKeys() ([]graph.Key, error) {
	var keys []graph.Key
	err := filepath.WalkDir(w.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(w.root, p)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if rel == ConfigDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, ".md") {
			return nil
		}
		keys = append(keys, graph.KeyFromFileName(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace: walk %s: %w", w.root, err)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// Root returns the workspace's absolute root directory.
func (w *Workspace) Root() string { return w.root }

// Config returns the workspace's decoded configuration.
func (w *Workspace) Config() config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// Graph returns the live graph for read-only use. Callers must not mutate
// it; use UpdateDocument/Apply/Rename for every write path.
func (w *Workspace) Graph() *graph.Graph {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.g
}

// Catalog returns the workspace's action catalog.
func (w *Workspace) Catalog() *action.Catalog {
	return w.catalog
}

// Writer returns the workspace's configured markdown.Writer, for callers
// (export, LSP formatting) that need to project graph content themselves.
func (w *Workspace) Writer() markdown.Writer { return w.writer }

// Reader returns the workspace's configured markdown.Reader.
func (w *Workspace) Reader() markdown.Reader { return w.reader }

// UpdateDocument implements spec.md §4.10's document parse state machine:
// `Unknown → Parsing → Indexed → Stale → Parsing → …`. It discards key's
// prior sub-graph, reparses text, and rebuilds the whole reference index
// from scratch; entries are not merged incrementally per key.
func (w *Workspace) UpdateDocument(ctx context.Context, key graph.Key, text []byte) error {
	doc, err := w.reader.Parse(ctx, text)
	if err != nil {
		return fmt.Errorf("workspace: parse %s: %w", key, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.g.RemoveDocument(key)
	sections.Build(w.g, key, doc)
	w.g.RefIndex().Rebuild(w.g.Arena(), w.g.Lines())
	return nil
}

// Apply writes a patch.Change set to disk and folds the same update into
// the live graph, so a caller never needs to reload() after resolving an
// action. Per spec.md §5 "Cancellation: ... No partial edits are applied
// by the core" callers should discard an unwanted change set before
// calling Apply rather than partially applying it.
func (w *Workspace) Apply(ctx context.Context, changes []patch.Change) error {
	if w.rt == nil {
		// In-memory workspace (NewInMemory): nothing to persist, only the
		// live graph needs folding in below.
	} else if err := w.applyToDisk(changes); err != nil {
		return err
	}

	for _, c := range changes {
		switch c.Kind {
		case patch.Remove:
			w.mu.Lock()
			w.g.RemoveDocument(c.Key)
			w.mu.Unlock()
		case patch.Create, patch.Update:
			if err := w.UpdateDocument(ctx, c.Key, []byte(c.Markdown)); err != nil {
				return err
			}
		}
	}
	w.mu.Lock()
	w.g.RefIndex().Rebuild(w.g.Arena(), w.g.Lines())
	w.mu.Unlock()
	return nil
}

// applyToDisk writes changes to the filesystem only; the caller folds the
// same set into the live graph afterward.
func (w *Workspace) applyToDisk(changes []patch.Change) error {
	for _, c := range changes {
		path := filepath.Join(w.root, c.Key.FileName())
		switch c.Kind {
		case patch.Remove:
			if err := w.rt.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("workspace: remove %s: %w", path, err)
			}
		case patch.Create, patch.Update:
			if err := w.rt.Mkdir(filepath.Dir(path), 0o755, true); err != nil {
				return fmt.Errorf("workspace: mkdir for %s: %w", path, err)
			}
			if err := w.rt.WriteFile(path, []byte(c.Markdown), 0o644); err != nil {
				return fmt.Errorf("workspace: write %s: %w", path, err)
			}
		}
	}
	return nil
}

// Resolve runs the catalog's Resolve for id against the current graph and
// req, without applying the resulting change set. Callers that want the
// effect persisted call Apply with the result.
func (w *Workspace) Resolve(ctx context.Context, id string, req action.Request) ([]patch.Change, error) {
	w.mu.RLock()
	g := w.g
	w.mu.RUnlock()
	return w.catalog.Resolve(ctx, g, w.writer, id, req)
}

// Applicable returns every action applicable at req against the current
// graph.
func (w *Workspace) Applicable(req action.Request) []action.Handle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.catalog.Applicable(w.g, req)
}

// Rename runs C14 (pkg/rename.Rename) against the current graph, returning
// the change set without applying it, per spec.md §4.10's rename state
// machine: `Idle → Validating → Applying → Emitted` with KeyTaken as the
// only non-fatal terminal.
func (w *Workspace) Rename(ctx context.Context, key, newName graph.Key) ([]patch.Change, error) {
	w.mu.RLock()
	g := w.g
	w.mu.RUnlock()
	return rename.Rename(ctx, g, w.writer, key, newName)
}

// NoteKey renders title into the library's key namespace (spec.md §6.1
// `library.path` — "subdirectory treated as new-note root"), producing the
// candidate key the CLI's `new` command writes to before disambiguation.
func (w *Workspace) NoteKey(title string) graph.Key {
	slug := action.Slugify(title)
	lib := w.Config().Library.Path
	if lib == "" {
		return graph.Key(slug)
	}
	return graph.Combine(graph.Key(lib), graph.Key(slug))
}

// RenderNote renders a new note's markdown body from documentTemplate (or
// a plain "# Title\n\ncontent\n" fallback when no template is configured),
// for the CLI's `new` command.
func (w *Workspace) RenderNote(title, content, documentTemplate string) (string, error) {
	tctx := action.NewTemplateContext(title, w.today(), "")
	if documentTemplate != "" {
		return action.RenderTemplate("new", documentTemplate, tctx.WithContent(content))
	}
	if content == "" {
		return fmt.Sprintf("# %s\n", title), nil
	}
	return fmt.Sprintf("# %s\n\n%s\n", title, content), nil
}

// ResolveNewKey disambiguates candidate against existing keys by appending
// "-1", "-2", … until a free key is found, per spec.md §6.2 `new`'s default
// collision behavior and §4.8's custom.extract/extract_all template
// collision rule.
func (w *Workspace) ResolveNewKey(candidate graph.Key) graph.Key {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.g.HasKey(candidate) {
		return candidate
	}
	for i := 1; ; i++ {
		next := graph.Key(fmt.Sprintf("%s-%d", candidate, i))
		if !w.g.HasKey(next) {
			return next
		}
	}
}
