package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyParentBase(t *testing.T) {
	k := Key("docs/tutorial/basics")
	assert.Equal(t, Key("docs/tutorial"), k.Parent())
	assert.Equal(t, Key("basics"), k.Base())
	assert.Equal(t, Key(""), Key("basics").Parent())
}

func TestCombine(t *testing.T) {
	assert.Equal(t, Key("docs/tutorial/basics"), Combine("docs/tutorial", "basics"))
	assert.Equal(t, Key("docs/other"), Combine("docs/tutorial", "../other"))
	assert.Equal(t, Key("basics"), Combine("", "basics"))
}

func TestKeyFromFileName(t *testing.T) {
	assert.Equal(t, Key("docs/tutorial/basics"), KeyFromFileName("docs/tutorial/basics.md"))
	assert.Equal(t, Key("basics"), KeyFromFileName("/basics.md"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "docs/basics.md", Key("docs/basics").FileName())
}

func TestIsReferenceURL(t *testing.T) {
	assert.True(t, IsReferenceURL("docs/tutorial/basics", ""))
	assert.False(t, IsReferenceURL("https://example.com/basics", ""))
	assert.False(t, IsReferenceURL("docs/tutorial/basics.md", ""))
	assert.False(t, IsReferenceURL("#heading", ""))
	assert.True(t, IsReferenceURL("docs/basics.html", ".html"))
	assert.False(t, IsReferenceURL("mailto:a@b.com", ""))
}

func TestKeyFromRelLinkURL(t *testing.T) {
	referrer := Key("docs/tutorial/basics")
	assert.Equal(t, Key("docs/tutorial/advanced"), KeyFromRelLinkURL("advanced", referrer, ""))
	assert.Equal(t, Key("top"), KeyFromRelLinkURL("/top", referrer, ""))
	assert.Equal(t, Key("docs/tutorial/advanced"), KeyFromRelLinkURL("advanced.html", referrer, ".html"))
}
