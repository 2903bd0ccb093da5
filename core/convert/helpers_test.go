package convert

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/pagemd/core/dom"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testBase = "https://example.com/docs/"

func testContext() Context {
	return NewContext(testBase, Options{})
}

func parse(t *testing.T, src string) dom.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return dom.Wrap(doc)
}

// find returns the first element in src matching sel.
func find(t *testing.T, src, sel string) dom.Node {
	t.Helper()
	n, ok := parse(t, src).Find(cascadia.MustCompile(sel))
	require.True(t, ok, "no match for %q", sel)
	return n
}
