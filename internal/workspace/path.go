package workspace

import (
	"net/url"
	"runtime"
	"strings"
)

// NormalizePath turns a path taken from a URI or a tool's output into a path
// usable as a shell argument and as a map key. On Windows a single leading
// separator is removed ("/c:/proj" -> "c:/proj"); elsewhere the path is unchanged.
func NormalizePath(p string) string {
	return normalizePathFor(runtime.GOOS, p)
}

func normalizePathFor(goos, p string) string {
	if goos != "windows" {
		return p
	}
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return p[1:]
	}
	return p
}

// FromURI converts a file:// URI to a normalized path. Plain paths pass
// through NormalizePath unchanged.
func FromURI(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return NormalizePath(uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return NormalizePath(strings.TrimPrefix(uri, "file://"))
	}
	return NormalizePath(u.Path)
}
