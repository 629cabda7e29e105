package action

import (
	"context"
	"fmt"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/llm"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/patch"
)

// Catalog is the Action Engine (C12): the fixed set of refactor.* kinds
// plus the workspace's configured custom.* actions, with the global
// config, prompt templates, model table, and LLM collaborator injected
// once at construction so every Applicable/Resolve call stays a pure
// function of (graph, request) — spec.md §9 "Global config and prompt
// templates are injected into actions at catalog-construction time;
// actions themselves are stateless."
type Catalog struct {
	custom []Config
	models map[string]llm.Model
	llm    llm.Func
	today  func() string
}

// NewCatalog builds a Catalog from the workspace's `actions.<id>` table,
// its `models.<name>` table, the LLM collaborator custom.transform calls
// out to, and a clock function supplying {{.Today}} (injected rather than
// called directly, so the catalog stays a pure function of its inputs).
func NewCatalog(custom []Config, models map[string]llm.Model, fn llm.Func, today func() string) *Catalog {
	return &Catalog{custom: custom, models: models, llm: fn, today: today}
}

// Applicable returns every action (built-in and configured) applicable at
// req, in catalog order: the ten refactor.* kinds first, then the
// workspace's custom.* entries in configuration order.
func (c *Catalog) Applicable(g *graph.Graph, req Request) []Handle {
	var out []Handle
	for _, h := range []func(*graph.Graph, Request) (Handle, bool){
		ApplicableExtractSection,
		ApplicableExtractSubsections,
		ApplicableExtractList,
		ApplicableRewriteListSection,
		ApplicableRewriteListType,
		ApplicableRewriteSectionList,
		ApplicableInlineReferenceSection,
		ApplicableInlineReferenceQuote,
		ApplicableInlineReferenceList,
		ApplicableDelete,
	} {
		if handle, ok := h(g, req); ok {
			out = append(out, handle)
		}
	}
	for _, cfg := range c.custom {
		if handle, ok := c.applicableCustom(g, cfg, req); ok {
			out = append(out, handle)
		}
	}
	return out
}

func (c *Catalog) applicableCustom(g *graph.Graph, cfg Config, req Request) (Handle, bool) {
	switch cfg.Kind {
	case KindCustomAttach:
		return ApplicableCustomAttach(g, cfg, c.today(), req)
	case KindCustomSort:
		return ApplicableCustomSort(g, cfg, req)
	case KindCustomExtract:
		return ApplicableCustomExtract(g, cfg, req)
	case KindCustomExtractAll:
		return ApplicableCustomExtractAll(g, cfg, req)
	case KindCustomLink:
		return ApplicableCustomLink(g, cfg, req)
	case KindCustomTransform:
		return ApplicableCustomTransform(g, cfg, req)
	default:
		return Handle{}, false
	}
}

// Resolve dispatches to the named action id's Resolve function. id is
// either a built-in Kind string (e.g. "refactor.extract.section") or a
// configured custom.* action's Config.ID.
func (c *Catalog) Resolve(ctx context.Context, g *graph.Graph, w markdown.Writer, id string, req Request) ([]patch.Change, error) {
	switch Kind(id) {
	case KindExtractSection:
		return ResolveExtractSection(ctx, g, w, req)
	case KindExtractSubsections:
		return ResolveExtractSubsections(ctx, g, w, req)
	case KindExtractList:
		return ResolveExtractList(ctx, g, w, req)
	case KindRewriteListSection:
		return ResolveRewriteListSection(ctx, g, w, req)
	case KindRewriteListType:
		return ResolveRewriteListType(ctx, g, w, req)
	case KindRewriteSectionList:
		return ResolveRewriteSectionList(ctx, g, w, req)
	case KindInlineReferenceSection:
		return ResolveInlineReferenceSection(ctx, g, w, req)
	case KindInlineReferenceQuote:
		return ResolveInlineReferenceQuote(ctx, g, w, req)
	case KindInlineReferenceList:
		return ResolveInlineReferenceList(ctx, g, w, req)
	case KindDelete:
		return ResolveDelete(ctx, g, w, req)
	}

	cfg, ok := c.configByID(id)
	if !ok {
		return nil, fmt.Errorf("action: unknown action id %q", id)
	}
	return c.resolveCustom(ctx, g, w, cfg, req)
}

func (c *Catalog) configByID(id string) (Config, bool) {
	for _, cfg := range c.custom {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return Config{}, false
}

func (c *Catalog) resolveCustom(ctx context.Context, g *graph.Graph, w markdown.Writer, cfg Config, req Request) ([]patch.Change, error) {
	switch cfg.Kind {
	case KindCustomAttach:
		return ResolveCustomAttach(ctx, g, w, cfg, c.today(), req)
	case KindCustomSort:
		return ResolveCustomSort(ctx, g, w, cfg, req)
	case KindCustomExtract:
		return ResolveCustomExtract(ctx, g, w, cfg, c.today(), req)
	case KindCustomExtractAll:
		return ResolveCustomExtractAll(ctx, g, w, cfg, c.today(), req)
	case KindCustomLink:
		return ResolveCustomLink(ctx, g, w, cfg, c.today(), req)
	case KindCustomTransform:
		model, ok := c.models[cfg.Model]
		if !ok {
			return nil, fmt.Errorf("action: unknown model %q for action %q", cfg.Model, cfg.ID)
		}
		return ResolveCustomTransform(ctx, g, w, cfg, model, c.llm, req)
	default:
		return nil, fmt.Errorf("action: unsupported custom action kind %q", cfg.Kind)
	}
}
