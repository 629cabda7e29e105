// Package action implements C12: the catalog of refactorings and authored
// actions from spec.md §4.8, each deciding applicability at a cursor and
// producing a patch.Change set.
package action

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/jlrickert/noteweave/pkg/graph"
)

// KeyParts is the `{{.Parent}}`/`{{.Source}}` template namespace: the
// id/slug/title of a key (spec.md §4.8's `{{parent.*}}`/`{{source.*}}`,
// rendered here as Go text/template dotted field access —
// `{{.Parent.Title}}` — rather than the pseudo-syntax spec.md's prose uses,
// which is not valid Go template syntax; the template variables themselves
// are unchanged, only their spelling is idiomatic to the language).
type KeyParts struct {
	ID    string
	Slug  string
	Title string
}

// TemplateContext is the data a key/document template renders against:
// spec.md §4.8's `{{id}}, {{slug}}, {{title}}, {{parent.*}}, {{source.*}},
// {{today}}` plus `{{content}}` for document templates, exposed as struct
// fields for `{{.ID}}`-style Go template access.
type TemplateContext struct {
	ID      string
	Slug    string
	Title   string
	Today   string
	Content string
	Parent  KeyParts
	Source  KeyParts
}

// Slugify lowercases title and replaces runs of non-alphanumeric
// characters with a single hyphen, trimming leading/trailing hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func keyParts(k graph.Key) KeyParts {
	base := string(k.Base())
	return KeyParts{ID: base, Slug: Slugify(base), Title: base}
}

// NewTemplateContext builds the context for creating a document titled
// title on date today (injected by the caller so the core stays a pure
// function of its inputs, rather than calling a clock itself), from the
// document the action was invoked in (source).
func NewTemplateContext(title, today string, source graph.Key) TemplateContext {
	return TemplateContext{
		ID:     Slugify(title),
		Slug:   Slugify(title),
		Title:  title,
		Today:  today,
		Parent: keyParts(source.Parent()),
		Source: keyParts(source),
	}
}

// WithContent returns a copy of c with Content set, for document_template's
// `{{.Content}}` placeholder.
func (c TemplateContext) WithContent(content string) TemplateContext {
	c.Content = content
	return c
}

// RenderTemplate renders tmplText against c. A render failure is wrapped
// in ErrTemplate (spec.md §7 TemplateError).
func RenderTemplate(name, tmplText string, c TemplateContext) (string, error) {
	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, c); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	return b.String(), nil
}
