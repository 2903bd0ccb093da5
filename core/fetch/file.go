package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/pagemd/core"
)

// FileFetcher reads saved HTML from disk. Relative links resolve against
// Base when it is set, and against the file:// URL of the page otherwise.
type FileFetcher struct {
	Base string
}

// IsFile reports whether target names a local file rather than a web URL.
func IsFile(target string) bool {
	if strings.HasPrefix(target, "file://") {
		return true
	}
	u, err := url.Parse(target)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return false
	}
	_, statErr := os.Stat(target)
	return statErr == nil
}

// Fetch reads target, a path or file:// URL.
func (f *FileFetcher) Fetch(ctx context.Context, target string) (*core.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := target
	if strings.HasPrefix(target, "file://") {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("parsing file URL: %w", err)
		}
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	base := f.Base
	if base == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		base = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}

	return &core.FetchResult{URL: base, StatusCode: 200, HTML: string(data)}, nil
}
