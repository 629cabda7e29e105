// Package config parses and defaults the workspace's `.iwe/config.toml`
// (spec.md §6.1) into the value types the rest of noteweave consumes:
// graph.Options, the action catalog's Config/llm.Model tables, and the
// library/new-note settings the CLI's `new` command reads.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/jlrickert/noteweave/pkg/action"
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/llm"
)

// DefaultMarkdownDateFormat and DefaultLibraryDateFormat mirror the
// reference CLI's DefaultProjectConfig/DefaultUserConfig pattern: constants filled in Go
// rather than baked into the TOML file new workspaces get.
const (
	DefaultMarkdownDateFormat = "Jan 2, 2006"
	DefaultLibraryDateFormat  = "2006-01-02"
)

// Config is the decoded, defaulted form of `.iwe/config.toml`.
type Config struct {
	Markdown         Markdown
	Library          Library
	PromptKeyPrefix  string
	Models           map[string]llm.Model
	Actions          []action.Config
}

// Markdown holds spec.md §6.1's `markdown.*` table.
type Markdown struct {
	RefsExtension string
	DateFormat    string
}

// Library holds spec.md §6.1's `library.*` table, consumed by the CLI's
// `new` command.
type Library struct {
	Path       string
	DateFormat string
}

// fileDTO mirrors the TOML file's on-disk shape; Parse decodes into this and
// converts to Config, filling defaults and resolving enum-like string
// fields (action kind, link type) into their typed forms.
type fileDTO struct {
	Markdown struct {
		RefsExtension string `toml:"refs_extension"`
		DateFormat    string `toml:"date_format"`
	} `toml:"markdown"`

	Library struct {
		Path       string `toml:"path"`
		DateFormat string `toml:"date_format"`
	} `toml:"library"`

	PromptKeyPrefix string `toml:"prompt_key_prefix"`

	Models map[string]modelDTO `toml:"models"`

	Actions map[string]actionDTO `toml:"actions"`
}

type modelDTO struct {
	APIKeyEnv           string  `toml:"api_key_env"`
	BaseURL             string  `toml:"base_url"`
	Name                string  `toml:"name"`
	MaxTokens           int     `toml:"max_tokens"`
	MaxCompletionTokens int     `toml:"max_completion_tokens"`
	Temperature         float64 `toml:"temperature"`
}

type actionDTO struct {
	Kind             string `toml:"kind"`
	Title            string `toml:"title"`
	KeyTemplate      string `toml:"key_template"`
	DocumentTemplate string `toml:"document_template"`
	PromptTemplate   string `toml:"prompt_template"`
	Model            string `toml:"model"`
	LinkType         string `toml:"link_type"`
	Reverse          bool   `toml:"reverse"`
}

// Parse decodes raw TOML bytes into a defaulted Config. An empty/absent
// file (raw == nil) still yields a Config with every default filled in, so
// an empty workspace (spec.md §8 boundary behavior) works with no
// `.iwe/config.toml` at all.
func Parse(raw []byte) (Config, error) {
	var dto fileDTO
	if len(raw) > 0 {
		if _, err := toml.Decode(string(raw), &dto); err != nil {
			return Config{}, fmt.Errorf("config: %w: %v", graph.ErrParse, err)
		}
	}

	cfg := Config{
		Markdown: Markdown{
			RefsExtension: dto.Markdown.RefsExtension,
			DateFormat:    dto.Markdown.DateFormat,
		},
		Library: Library{
			Path:       dto.Library.Path,
			DateFormat: dto.Library.DateFormat,
		},
		PromptKeyPrefix: dto.PromptKeyPrefix,
	}
	if cfg.Markdown.DateFormat == "" {
		cfg.Markdown.DateFormat = DefaultMarkdownDateFormat
	}
	if cfg.Library.DateFormat == "" {
		cfg.Library.DateFormat = DefaultLibraryDateFormat
	}

	if len(dto.Models) > 0 {
		cfg.Models = make(map[string]llm.Model, len(dto.Models))
		for name, m := range dto.Models {
			modelName := m.Name
			if modelName == "" {
				modelName = name
			}
			cfg.Models[name] = llm.Model{
				Name:                modelName,
				APIKeyEnv:           m.APIKeyEnv,
				BaseURL:             m.BaseURL,
				MaxTokens:           m.MaxTokens,
				MaxCompletionTokens: m.MaxCompletionTokens,
				Temperature:         m.Temperature,
			}
		}
	}

	if len(dto.Actions) > 0 {
		cfg.Actions = make([]action.Config, 0, len(dto.Actions))
		for id, a := range dto.Actions {
			kind, err := parseActionKind(a.Kind)
			if err != nil {
				return Config{}, fmt.Errorf("config: action %q: %w", id, err)
			}
			cfg.Actions = append(cfg.Actions, action.Config{
				ID:               id,
				Kind:             kind,
				Title:            a.Title,
				KeyTemplate:      a.KeyTemplate,
				DocumentTemplate: a.DocumentTemplate,
				PromptTemplate:   a.PromptTemplate,
				Model:            a.Model,
				LinkType:         parseLinkType(a.LinkType),
				Reverse:          a.Reverse,
			})
		}
	}

	return cfg, nil
}

// parseActionKind maps the TOML `kind` string to the catalog's Kind
// identifier, per spec.md §6.1's
// `kind ∈ {Transform, Attach, Sort, Inline, Delete, Extract, ExtractAll, Link}`.
// "Inline" and "Delete" name the built-in refactor.* actions and carry no
// custom.* Config of their own; the catalog builds no action from such an
// entry, so its title is not used.
func parseActionKind(kind string) (action.Kind, error) {
	switch kind {
	case "Transform":
		return action.KindCustomTransform, nil
	case "Attach":
		return action.KindCustomAttach, nil
	case "Sort":
		return action.KindCustomSort, nil
	case "Extract":
		return action.KindCustomExtract, nil
	case "ExtractAll":
		return action.KindCustomExtractAll, nil
	case "Link":
		return action.KindCustomLink, nil
	case "Inline":
		return action.KindInlineReferenceSection, nil
	case "Delete":
		return action.KindDelete, nil
	default:
		return "", fmt.Errorf("unknown action kind %q", kind)
	}
}

// parseLinkType maps the TOML `link_type` string to graph.ReferenceType,
// defaulting to RefRegular for an empty or unrecognized value.
func parseLinkType(s string) graph.ReferenceType {
	switch s {
	case "wikilink":
		return graph.RefWikiLink
	case "wikilink_piped":
		return graph.RefWikiLinkPiped
	default:
		return graph.RefRegular
	}
}

// GraphOptions projects the config's markdown settings into graph.Options.
func (c Config) GraphOptions() graph.Options {
	return graph.Options{RefsExtension: c.Markdown.RefsExtension}
}

// DefaultTOML is the contents `init` (spec.md §6.2) writes to a fresh
// `.iwe/config.toml`.
const DefaultTOML = `[markdown]
refs_extension = ""
date_format = "Jan 2, 2006"

[library]
path = ""
date_format = "2006-01-02"
`
