// Package resolve turns possibly-relative references found in a page into
// absolute URLs. Resolution is best-effort: anything that does not parse is
// handed back untouched.
package resolve

import (
	"net/url"
	"strings"
)

// Reference resolves ref against base. If either value fails to parse,
// or base is not absolute, ref is returned unchanged.
func Reference(ref, base string) string {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return ref
	}

	parsedRef, err := url.Parse(trimmed)
	if err != nil {
		return ref
	}
	if parsedRef.IsAbs() {
		return parsedRef.String()
	}

	parsedBase, ok := Base(base)
	if !ok {
		// Protocol-relative references still need a scheme to be useful.
		if strings.HasPrefix(trimmed, "//") {
			return "https:" + trimmed
		}
		return ref
	}

	return parsedBase.ResolveReference(parsedRef).String()
}

// Base parses a base location and reports whether it is absolute.
func Base(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	return u, true
}
