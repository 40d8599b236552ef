package content

import (
	"path"
	"strings"
)

// SlugFromPath derives the slug from a source path: the path relative to dir,
// slash separated, without its extension.
func SlugFromPath(p, dir string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if dir != "" {
		dir = path.Clean(strings.ReplaceAll(dir, "\\", "/"))
	}
	if dir != "" && dir != "." {
		p = strings.TrimPrefix(p, dir+"/")
	}
	return strings.TrimSuffix(p, path.Ext(p))
}
