// Package mediapath turns stored file paths into URLs the media handler can serve.
package mediapath

import (
	"path/filepath"
	"strings"
)

// URLPrefix is where the media root is mounted on the web server.
const URLPrefix = "/media/"

// Resolver resolves raw storage paths against a media root directory.
type Resolver struct {
	Root string
}

// NewResolver returns a Resolver for root.
func NewResolver(root string) *Resolver { return &Resolver{Root: root} }

// Configured reports whether a media root is set. Without one nothing is servable.
func (r *Resolver) Configured() bool {
	return r != nil && strings.TrimSpace(r.Root) != ""
}

// RelativePath returns raw relative to the media root, or "" if it cannot be served.
func (r *Resolver) RelativePath(raw string) string {
	if r == nil {
		return ToRelativeWebPath(raw, "")
	}
	return ToRelativeWebPath(raw, r.Root)
}

// SourceURL returns the servable URL for raw. ok is false when raw resolves to nothing.
func (r *Resolver) SourceURL(raw string) (string, bool) {
	rel := r.RelativePath(raw)
	if strings.TrimSpace(rel) == "" {
		return "", false
	}
	rel = strings.TrimLeft(rel, `/\`)
	return URLPrefix + strings.ReplaceAll(rel, `\`, "/"), true
}

// ToRelativeWebPath normalizes separators and strips root from path.
// Paths outside root are kept as-is minus leading slashes. Blank input yields "".
func ToRelativeWebPath(path, root string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}

	normalized := normalizeSeparators(strings.TrimSpace(path))

	if strings.TrimSpace(root) != "" {
		normRoot := strings.TrimRight(normalizeSeparators(root), "/")
		if hasPrefixFold(normalized, normRoot) {
			normalized = normalized[len(normRoot):]
		} else if rel, ok := relativeTo(root, path); ok {
			normalized = normalizeSeparators(rel)
		}
	}

	normalized = strings.TrimLeft(normalized, "/")
	for strings.HasPrefix(normalized, "./") {
		normalized = normalized[2:]
	}
	if normalized == "." {
		return ""
	}
	return normalized
}

func relativeTo(root, path string) (string, bool) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	var candidate string
	if filepath.IsAbs(path) {
		candidate = filepath.Clean(path)
	} else {
		candidate = filepath.Join(rootAbs, strings.TrimLeft(path, `/\`))
	}
	rel, err := filepath.Rel(rootAbs, candidate)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func normalizeSeparators(v string) string {
	v = strings.ReplaceAll(v, `\`, "/")
	for strings.Contains(v, "//") {
		v = strings.ReplaceAll(v, "//", "/")
	}
	return v
}
