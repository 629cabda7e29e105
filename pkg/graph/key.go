// Package graph implements the content graph: the in-memory aggregate of
// parsed documents, their structural nodes, inline content, and the
// cross-document reference index that the rest of the engine builds on.
package graph

import (
	"path"
	"strings"
)

// Key is a normalized, extension-stripped, path-like document identifier,
// for example "docs/tutorial/basics". Keys compare by plain string
// equality; callers should always construct them through the helpers below
// rather than building raw strings so that separators and extensions stay
// normalized.
type Key string

// String returns the key's underlying string form.
func (k Key) String() string { return string(k) }

// Empty reports whether the key carries no path segments.
func (k Key) Empty() bool { return k == "" }

// Parent returns the key's directory component, mirroring filepath.Dir but
// operating on forward-slash-separated keys and never returning ".".
func (k Key) Parent() Key {
	dir := path.Dir(string(k))
	if dir == "." || dir == "/" {
		return ""
	}
	return Key(dir)
}

// Base returns the final path segment of the key.
func (k Key) Base() Key {
	return Key(path.Base(string(k)))
}

// Combine joins a parent key with a relative key, normalizing away "./" and
// "../" segments the way a filesystem path join would. An empty parent
// yields the relative key unchanged.
func Combine(parent Key, relative Key) Key {
	if parent.Empty() {
		return cleanKey(relative)
	}
	return cleanKey(Key(path.Join(string(parent), string(relative))))
}

// cleanKey normalizes a key's separators and strips a trailing ".md"
// extension if present.
func cleanKey(k Key) Key {
	s := string(k)
	s = strings.TrimPrefix(s, "./")
	s = path.Clean(s)
	if s == "." {
		return ""
	}
	s = strings.TrimSuffix(s, ".md")
	return Key(s)
}

// KeyFromFileName derives a Key from a file path relative to the workspace
// root, stripping the ".md" extension and normalizing separators to "/".
func KeyFromFileName(relPath string) Key {
	s := strings.ReplaceAll(relPath, "\\", "/")
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimSuffix(s, ".md")
	return Key(path.Clean(s))
}

// FileName returns the workspace-relative markdown file name for the key.
func (k Key) FileName() string {
	return string(k) + ".md"
}

// hasScheme reports whether url looks like an absolute URL ("scheme://..."
// or "mailto:...") rather than a relative document reference.
func hasScheme(url string) bool {
	i := strings.Index(url, ":")
	if i <= 0 {
		return false
	}
	for _, r := range url[:i] {
		if !(r == '+' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// IsReferenceURL reports whether url should be treated as a relative
// document reference: it carries no scheme and, once a trailing
// refs_extension is stripped, does not end in ".md".
func IsReferenceURL(url string, refsExtension string) bool {
	if url == "" || hasScheme(url) {
		return false
	}
	if strings.HasPrefix(url, "#") {
		return false
	}
	trimmed := url
	if refsExtension != "" {
		trimmed = strings.TrimSuffix(trimmed, refsExtension)
	}
	if strings.HasSuffix(trimmed, ".md") {
		return false
	}
	return true
}

// KeyFromRelLinkURL resolves a link target against the key of the document
// that contains the link: a leading "/" anchors it at the workspace root,
// otherwise it is resolved relative to relativeTo's parent directory.
func KeyFromRelLinkURL(url string, relativeTo Key, refsExtension string) Key {
	trimmed := url
	if refsExtension != "" {
		trimmed = strings.TrimSuffix(trimmed, refsExtension)
	}
	trimmed = strings.TrimSuffix(trimmed, ".md")
	if strings.HasPrefix(trimmed, "/") {
		return cleanKey(Key(strings.TrimPrefix(trimmed, "/")))
	}
	return Combine(relativeTo.Parent(), Key(trimmed))
}
