package graph

// InlineKind tags the variant of an Inline value.
type InlineKind uint8

const (
	InlineStr InlineKind = iota
	InlineEmph
	InlineStrong
	InlineUnderline
	InlineStrikeout
	InlineSuperscript
	InlineSubscript
	InlineSmallCaps
	InlineCode
	InlineSpace
	InlineSoftBreak
	InlineLineBreak
	InlineLink
	InlineImage
	InlineMath
	InlineRaw
)

// LinkType distinguishes markdown, wikilink, and piped-wikilink link syntax
// so the writer can round-trip the original form.
type LinkType uint8

const (
	LinkRegular LinkType = iota
	LinkWiki
	LinkWikiPiped
)

// Inline is the leaf-level content inside a Line. Str/Code/Space/Math/Raw
// carry their text in Text; Link/Image carry Target/Title plus nested
// Children; every other kind is a pure container over Children.
type Inline struct {
	Kind InlineKind

	Text string // Str, Code, Space (literal run), Math, RawInline

	// Link / Image
	Target   string
	Title    string
	LinkType LinkType
	Children []Inline

	// RefKey is populated by the sections builder when Target is a
	// reference URL; it is derived data, not parsed input.
	RefKey    Key
	IsRefLink bool
}

// Line is an interned, ordered sequence of inlines.
type Line []Inline

// PlainText concatenates the literal text of a line, descending into link
// and emphasis children, ignoring markup. Used for titles, leads, sort keys,
// and search.
func (l Line) PlainText() string {
	var b []byte
	for _, in := range l {
		b = appendInlinePlainText(b, in)
	}
	return string(b)
}

func appendInlinePlainText(b []byte, in Inline) []byte {
	switch in.Kind {
	case InlineStr, InlineCode, InlineMath, InlineRaw:
		return append(b, in.Text...)
	case InlineSpace:
		return append(b, ' ')
	case InlineSoftBreak:
		return append(b, ' ')
	case InlineLineBreak:
		return append(b, '\n')
	default:
		for _, c := range in.Children {
			b = appendInlinePlainText(b, c)
		}
		return b
	}
}

// Str builds a single plain-text inline, a convenience used throughout the
// visitors and actions when synthesizing new content.
func Str(s string) Inline { return Inline{Kind: InlineStr, Text: s} }

// NewLink builds a Link inline pointing at target with the given title and
// link type; IsRefLink and RefKey are left unset.
func NewLink(text string, target string, title string, lt LinkType) Inline {
	return Inline{
		Kind:     InlineLink,
		Target:   target,
		Title:    title,
		LinkType: lt,
		Children: []Inline{Str(text)},
	}
}

// ChangeKey rewrites any Link inline whose resolved RefKey equals target,
// returning an updated copy; the rest of the line is recursed into. Used by
// the rename engine (C14) and the ChangeKey tree op (C9) to rewrite every
// inline link pointing at a renamed document.
func (l Line) ChangeKey(target, updated Key) Line {
	if len(l) == 0 {
		return l
	}
	out := make(Line, len(l))
	for i, in := range l {
		out[i] = in.changeKeyInline(target, updated)
	}
	return out
}

func (in Inline) changeKeyInline(target, updated Key) Inline {
	out := in
	if in.Kind == InlineLink && in.IsRefLink && in.RefKey == target {
		out.RefKey = updated
		out.Target = string(updated)
	}
	if len(in.Children) > 0 {
		children := make([]Inline, len(in.Children))
		for i, c := range in.Children {
			children[i] = c.changeKeyInline(target, updated)
		}
		out.Children = children
	}
	return out
}
