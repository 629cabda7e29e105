package action

import (
	"context"
	"sort"
	"strings"
	"text/template"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/llm"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// insertIntoPrimarySection inserts newTree at the pre-header position of
// root's primary section — root.Children[0], when it is a Section, is the
// document's own title heading (the same convention inlinedContent relies
// on), so an attached reference belongs inside its body, before any of its
// own subsections, not as a sibling of the title heading itself. A root
// with no such primary section (or none at all) gets newTree spliced
// directly into its own Children at the analogous position.
//
// tree.AppendPreHeader can't be reused here: it locates its parent via
// Tree.Find/SameID, which never matches a root that carries no arena
// identity — exactly the case for a document custom.attach just
// synthesized.
func insertIntoPrimarySection(root *tree.Tree, newTree *tree.Tree) *tree.Tree {
	clone := root.Clone()
	target := clone
	if len(clone.Children) > 0 && clone.Children[0].IsSection() {
		target = clone.Children[0]
	}
	pos := len(target.Children)
	for i, c := range target.Children {
		if c.IsSection() {
			pos = i
			break
		}
	}
	out := make([]*tree.Tree, 0, len(target.Children)+1)
	out = append(out, target.Children[:pos]...)
	out = append(out, newTree)
	out = append(out, target.Children[pos:]...)
	target.Children = out
	return clone
}

// targetHasBlockReferenceTo reports whether target's document already
// contains a Reference node pointing at refKey anywhere in its tree, i.e.
// the reference is already attached.
func targetHasBlockReferenceTo(target *tree.Tree, refKey graph.Key) bool {
	if target.Kind == graph.KindReference && target.Key == refKey {
		return true
	}
	for _, c := range target.Children {
		if targetHasBlockReferenceTo(c, refKey) {
			return true
		}
	}
	return false
}

// ApplicableCustomAttach implements custom.attach's applicability: the
// cursor is on a block Reference, the attach target key (rendered from
// cfg.KeyTemplate) resolves, and that target doesn't already reference the
// same key.
func ApplicableCustomAttach(g *graph.Graph, cfg Config, today string, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	ref := docTree.Find(req.TargetID)
	if ref == nil || ref.Kind != graph.KindReference {
		return Handle{}, false
	}
	targetKey, err := RenderTemplate(cfg.ID+".target", cfg.KeyTemplate, NewTemplateContext(ref.RefText, today, req.Key))
	if err != nil {
		return Handle{}, false
	}
	if root, ok := g.DocumentID(graph.Key(targetKey)); ok {
		existing := tree.Collect(g, root)
		if existing != nil && targetHasBlockReferenceTo(existing, ref.Key) {
			return Handle{}, false
		}
	}
	return Handle{Kind: KindCustomAttach, Title: cfg.Title, TargetID: req.TargetID}, true
}

// ResolveCustomAttach appends the cursor's reference to the (possibly
// freshly created) target document, above any sub-header prefix.
func ResolveCustomAttach(ctx context.Context, g *graph.Graph, w markdown.Writer, cfg Config, today string, req Request) ([]patch.Change, error) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	ref := docTree.Find(req.TargetID)
	if ref == nil || ref.Kind != graph.KindReference {
		return nil, nil
	}
	tctx := NewTemplateContext(ref.RefText, today, req.Key)
	targetKey, err := RenderTemplate(cfg.ID+".target", cfg.KeyTemplate, tctx)
	if err != nil {
		return nil, err
	}

	p := patch.New(g, w)
	key := graph.Key(targetKey)
	targetTree := p.LoadKey(key)
	if targetTree == nil {
		title := tctx.Title
		if cfg.DocumentTemplate != "" {
			title, err = RenderTemplate(cfg.ID+".document", cfg.DocumentTemplate, tctx.WithContent(""))
			if err != nil {
				return nil, err
			}
		}
		targetTree = &tree.Tree{
			Kind: graph.KindDocument,
			Key:  key,
			Children: []*tree.Tree{
				{Kind: graph.KindSection, Line: graph.Line{graph.Str(title)}},
			},
		}
	}

	attached := &tree.Tree{Kind: graph.KindReference, Key: ref.Key, RefText: ref.RefText, RefType: cfg.LinkType}
	updated := insertIntoPrimarySection(targetTree, attached)
	p.PutTree(key, updated)

	return p.Changes(ctx)
}

// ApplicableCustomSort implements custom.sort's applicability: the cursor
// is in a list whose items are not already ordered in cfg.Reverse's
// direction.
func ApplicableCustomSort(g *graph.Graph, cfg Config, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	listID, ok := resolveListID(docTree, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	list := docTree.Find(listID)
	if list == nil || len(list.Children) < 2 {
		return Handle{}, false
	}
	if isSorted(list.Children, cfg.Reverse) {
		return Handle{}, false
	}
	return Handle{Kind: KindCustomSort, Title: cfg.Title, TargetID: listID}, true
}

// ResolveCustomSort replaces the list's items with the same items sorted
// by plain-text comparison.
func ResolveCustomSort(ctx context.Context, g *graph.Graph, w markdown.Writer, cfg Config, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	listID, ok := resolveListID(docTree, req.TargetID)
	if !ok {
		return nil, nil
	}
	list := docTree.Find(listID)
	if list == nil {
		return nil, nil
	}
	sorted := append([]*tree.Tree{}, list.Children...)
	sort.SliceStable(sorted, func(i, j int) bool {
		less := sorted[i].PlainText() < sorted[j].PlainText()
		if cfg.Reverse {
			return !less
		}
		return less
	})

	p := patch.New(g, w)
	clone := docTree.Clone()
	target := clone.Find(listID)
	target.Children = sorted
	p.PutTree(key, clone)

	return p.Changes(ctx)
}

func isSorted(items []*tree.Tree, reverse bool) bool {
	for i := 1; i < len(items); i++ {
		a, b := items[i-1].PlainText(), items[i].PlainText()
		if reverse {
			if a < b {
				return false
			}
		} else if a > b {
			return false
		}
	}
	return true
}

// ApplicableCustomExtract implements custom.extract's applicability: same
// shape as refactor.extract.section.
func ApplicableCustomExtract(g *graph.Graph, cfg Config, req Request) (Handle, bool) {
	h, ok := ApplicableExtractSection(g, req)
	if !ok {
		return Handle{}, false
	}
	h.Kind = KindCustomExtract
	h.Title = cfg.Title
	return h, true
}

// ResolveCustomExtract is refactor.extract.section with a user-defined key
// template and link type.
func ResolveCustomExtract(ctx context.Context, g *graph.Graph, w markdown.Writer, cfg Config, today string, req Request) ([]patch.Change, error) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	target := docTree.Find(req.TargetID)
	if target == nil || !target.IsSection() {
		return nil, nil
	}
	tctx := NewTemplateContext(target.PlainText(), today, req.Key)
	newKey, err := RenderTemplate(cfg.ID, cfg.KeyTemplate, tctx)
	if err != nil {
		return nil, err
	}
	return resolveExtractSectionWithKey(ctx, g, w, req, graph.Key(newKey), cfg.LinkType)
}

// ApplicableCustomExtractAll implements custom.extract_all's
// applicability: same shape as refactor.extract.subsections.
func ApplicableCustomExtractAll(g *graph.Graph, cfg Config, req Request) (Handle, bool) {
	h, ok := ApplicableExtractSubsections(g, req)
	if !ok {
		return Handle{}, false
	}
	h.Kind = KindCustomExtractAll
	h.Title = cfg.Title
	return h, true
}

// ResolveCustomExtractAll is refactor.extract.subsections with a
// per-child key derived from cfg.KeyTemplate, disambiguated on collision.
func ResolveCustomExtractAll(ctx context.Context, g *graph.Graph, w markdown.Writer, cfg Config, today string, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	subs := docTree.GetSubSections(req.TargetID)
	if len(subs) == 0 {
		return nil, nil
	}

	p := patch.New(g, w)
	keys := make(map[graph.NodeID]graph.Key, len(subs))
	for _, s := range subs {
		tctx := NewTemplateContext(s.PlainText(), today, req.Key)
		rendered, err := RenderTemplate(cfg.ID, cfg.KeyTemplate, tctx)
		if err != nil {
			return nil, err
		}
		newKey := disambiguate(g, p, graph.Key(rendered))
		keys[*s.ID] = newKey
		p.PutTree(newKey, &tree.Tree{Kind: graph.KindDocument, Key: newKey, Children: []*tree.Tree{s.Clone()}})
	}

	updated := tree.ExtractSections(docTree, keys)
	p.PutTree(key, updated)

	return p.Changes(ctx)
}

// ApplicableCustomLink implements custom.link's applicability:
// req.Selected is a single-line, non-empty word or phrase.
func ApplicableCustomLink(g *graph.Graph, cfg Config, req Request) (Handle, bool) {
	sel := strings.TrimSpace(req.Selected)
	if sel == "" || strings.ContainsAny(sel, "\n\r") {
		return Handle{}, false
	}
	if _, _, ok := documentTree(g, req.TargetID); !ok {
		return Handle{}, false
	}
	return Handle{Kind: KindCustomLink, Title: cfg.Title, TargetID: req.TargetID}, true
}

// ResolveCustomLink creates a new document titled by the selection and
// replaces the selection's node with a Reference to it.
func ResolveCustomLink(ctx context.Context, g *graph.Graph, w markdown.Writer, cfg Config, today string, req Request) ([]patch.Change, error) {
	sel := strings.TrimSpace(req.Selected)
	if sel == "" {
		return nil, nil
	}
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	target := docTree.Find(req.TargetID)
	if target == nil {
		return nil, nil
	}

	p := patch.New(g, w)
	tctx := NewTemplateContext(sel, today, req.Key)
	rendered, err := RenderTemplate(cfg.ID, cfg.KeyTemplate, tctx)
	if err != nil {
		return nil, err
	}
	newKey := disambiguate(g, p, graph.Key(rendered))
	p.PutTree(newKey, &tree.Tree{
		Kind: graph.KindDocument,
		Key:  newKey,
		Children: []*tree.Tree{
			{Kind: graph.KindSection, Line: graph.Line{graph.Str(sel)}},
		},
	})

	updated := replaceWithReference(docTree, req.TargetID, newKey, sel, cfg.LinkType)
	p.PutTree(key, updated)

	return p.Changes(ctx)
}

const (
	transformStartMarker = "NOTEWEAVE-UPDATE-START"
	transformEndMarker   = "NOTEWEAVE-UPDATE-END"
)

// TransformContext is custom.transform's prompt template namespace:
// spec.md section 4.8's context/update_start/update_end markers.
type TransformContext struct {
	Context     string
	UpdateStart string
	UpdateEnd   string
}

func renderTransformPrompt(name, tmplText string, c TransformContext) (string, error) {
	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, c); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ApplicableCustomTransform implements custom.transform's applicability:
// the cursor is on a Section or Leaf node.
func ApplicableCustomTransform(g *graph.Graph, cfg Config, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	target := docTree.Find(req.TargetID)
	if target == nil || (target.Kind != graph.KindSection && target.Kind != graph.KindLeaf) {
		return Handle{}, false
	}
	return Handle{Kind: KindCustomTransform, Title: cfg.Title, TargetID: req.TargetID}, true
}

// ResolveCustomTransform renders cfg.PromptTemplate with the target's
// surrounding context marked off, invokes fn with the configured model,
// and replaces the target's inline content with the response. On a model
// failure or an empty response the document is left unchanged (spec.md
// section 7 ModelError: don't fail the whole resolve).
func ResolveCustomTransform(ctx context.Context, g *graph.Graph, w markdown.Writer, cfg Config, model llm.Model, fn llm.Func, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	target := docTree.Find(req.TargetID)
	if target == nil || (target.Kind != graph.KindSection && target.Kind != graph.KindLeaf) {
		return nil, nil
	}
	parent := docTree.ParentOf(req.TargetID)
	if parent == nil || parent.ID == nil {
		return nil, nil
	}
	pos := docTree.Position(req.TargetID)
	if pos < 0 {
		return nil, nil
	}

	marked := tree.MarkNode(docTree, *parent.ID, pos, pos+1, transformStartMarker, transformEndMarker)
	scratch := patch.New(g, w)
	const scratchKey graph.Key = "__transform_context__"
	scratch.PutTree(scratchKey, marked)
	rendered, err := scratch.ExportKey(ctx, scratchKey)
	if err != nil {
		return nil, err
	}

	tctx := TransformContext{
		Context:     rendered,
		UpdateStart: transformStartMarker,
		UpdateEnd:   transformEndMarker,
	}
	prompt, err := renderTransformPrompt(cfg.ID, cfg.PromptTemplate, tctx)
	if err != nil {
		return nil, err
	}

	resp, llmErr := fn(ctx, model, prompt)
	if llmErr != nil || strings.TrimSpace(resp) == "" {
		return nil, nil
	}

	p := patch.New(g, w)
	updated := tree.UpdateNode(docTree, req.TargetID, graph.Line{graph.Str(resp)})
	p.PutTree(key, updated)

	return p.Changes(ctx)
}
