package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/action"
	"github.com/jlrickert/noteweave/pkg/graph"
)

func TestParseEmptyFillsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultMarkdownDateFormat, cfg.Markdown.DateFormat)
	require.Equal(t, DefaultLibraryDateFormat, cfg.Library.DateFormat)
	require.Equal(t, "", cfg.Markdown.RefsExtension)
}

func TestParseMarkdownAndLibrary(t *testing.T) {
	raw := []byte(`
[markdown]
refs_extension = ".html"

[library]
path = "library"
`)
	cfg, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, ".html", cfg.Markdown.RefsExtension)
	require.Equal(t, "library", cfg.Library.Path)
	require.Equal(t, DefaultLibraryDateFormat, cfg.Library.DateFormat)
}

func TestParseModelsTable(t *testing.T) {
	raw := []byte(`
[models.gpt]
api_key_env = "OPENAI_API_KEY"
base_url = "https://api.openai.com/v1"
name = "gpt-4o-mini"
temperature = 0.2
`)
	cfg, err := Parse(raw)
	require.NoError(t, err)
	model, ok := cfg.Models["gpt"]
	require.True(t, ok)
	require.Equal(t, "gpt-4o-mini", model.Name)
	require.Equal(t, "OPENAI_API_KEY", model.APIKeyEnv)
	require.InDelta(t, 0.2, model.Temperature, 1e-9)
}

func TestParseActionsTable(t *testing.T) {
	raw := []byte(`
[actions.daily]
kind = "Attach"
title = "Attach to daily note"
key_template = "daily/{{.Today}}"
document_template = "# {{.Title}}\n\n{{.Content}}"

[actions.archive]
kind = "Extract"
key_template = "archive/{{.Slug}}"
link_type = "wikilink"
`)
	cfg, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, cfg.Actions, 2)

	var daily, archive *action.Config
	for i := range cfg.Actions {
		switch cfg.Actions[i].ID {
		case "daily":
			daily = &cfg.Actions[i]
		case "archive":
			archive = &cfg.Actions[i]
		}
	}
	require.NotNil(t, daily)
	require.Equal(t, action.KindCustomAttach, daily.Kind)
	require.Equal(t, "daily/{{.Today}}", daily.KeyTemplate)

	require.NotNil(t, archive)
	require.Equal(t, action.KindCustomExtract, archive.Kind)
	require.Equal(t, graph.RefWikiLink, archive.LinkType)
}

func TestParseActionsUnknownKindErrors(t *testing.T) {
	raw := []byte(`
[actions.bad]
kind = "Nonsense"
`)
	_, err := Parse(raw)
	require.Error(t, err)
}

func TestGraphOptionsProjectsRefsExtension(t *testing.T) {
	cfg, err := Parse([]byte(`[markdown]
refs_extension = ".md5"
`))
	require.NoError(t, err)
	require.Equal(t, ".md5", cfg.GraphOptions().RefsExtension)
}
