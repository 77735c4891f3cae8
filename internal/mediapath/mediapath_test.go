package mediapath

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRelativeWebPath(t *testing.T) {
	root := filepath.Join(t.TempDir(), "media")

	cases := []struct {
		name string
		path string
		root string
		want string
	}{
		{"blank", "   ", root, ""},
		{"no root keeps path", "photos/a.jpg", "", "photos/a.jpg"},
		{"backslashes", `photos\2024\a.jpg`, "", "photos/2024/a.jpg"},
		{"collapses double slashes", "photos//a.jpg", "", "photos/a.jpg"},
		{"strips root prefix", root + "/photos/a.jpg", root, "photos/a.jpg"},
		{"strips root case-insensitively", "/SRV/Media/a.jpg", "/srv/media", "a.jpg"},
		{"strips leading dot segments", "././a.jpg", "", "a.jpg"},
		{"dot only", ".", "", ""},
		{"root itself", root, root, ""},
		{"relative under root", "sub/../b.jpg", root, "b.jpg"},
		{"outside root kept", "/elsewhere/c.jpg", root, "elsewhere/c.jpg"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ToRelativeWebPath(c.path, c.root))
		})
	}
}

func TestResolver_SourceURL(t *testing.T) {
	r := NewResolver("/srv/media")
	assert.True(t, r.Configured())

	u, ok := r.SourceURL(`/srv/media\2024\beach.jpg`)
	assert.True(t, ok)
	assert.Equal(t, "/media/2024/beach.jpg", u)

	_, ok = r.SourceURL("")
	assert.False(t, ok)

	_, ok = r.SourceURL("/srv/media")
	assert.False(t, ok)
}

func TestResolver_Unconfigured(t *testing.T) {
	assert.False(t, NewResolver("  ").Configured())
	var r *Resolver
	assert.False(t, r.Configured())
}
