// Package dom provides a read-only view over a parsed HTML tree and the
// closed set of node kinds the converter dispatches on.
package dom

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Node is an immutable view over an element or text node. The zero value
// is an empty node.
type Node struct {
	n *html.Node
}

// Wrap returns a view over n.
func Wrap(n *html.Node) Node {
	return Node{n: n}
}

// HTML returns the underlying node.
func (n Node) HTML() *html.Node { return n.n }

// IsZero reports whether the view wraps nothing.
func (n Node) IsZero() bool { return n.n == nil }

// IsElement reports whether the node is an element.
func (n Node) IsElement() bool { return n.n != nil && n.n.Type == html.ElementNode }

// IsText reports whether the node is a text node.
func (n Node) IsText() bool { return n.n != nil && n.n.Type == html.TextNode }

// Tag returns the lowercase tag name, or "" for non-elements.
func (n Node) Tag() string {
	if !n.IsElement() {
		return ""
	}
	return strings.ToLower(n.n.Data)
}

// Attr returns the value of the named attribute. Namespaced attributes are
// addressed as "ns:key", e.g. "xlink:href".
func (n Node) Attr(key string) (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	key = strings.ToLower(key)
	for _, a := range n.n.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		if strings.ToLower(name) == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute, or def when it is missing or blank.
func (n Node) AttrOr(key, def string) string {
	if v, ok := n.Attr(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// HasAttr reports whether the attribute is present, even if empty.
func (n Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// Attrs returns a copy of the attributes in document order.
func (n Node) Attrs() []html.Attribute {
	if !n.IsElement() {
		return nil
	}
	out := make([]html.Attribute, len(n.n.Attr))
	copy(out, n.n.Attr)
	return out
}

// HasClass reports whether the class attribute contains the given token.
func (n Node) HasClass(name string) bool {
	class, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, token := range strings.Fields(class) {
		if token == name {
			return true
		}
	}
	return false
}

// Children returns element and text children in document order. Comments
// and doctype nodes are skipped.
func (n Node) Children() []Node {
	if n.n == nil {
		return nil
	}
	var out []Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || c.Type == html.TextNode {
			out = append(out, Node{n: c})
		}
	}
	return out
}

// ElementChildren returns only the element children.
func (n Node) ElementChildren() []Node {
	if n.n == nil {
		return nil
	}
	var out []Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, Node{n: c})
		}
	}
	return out
}

// Parent returns the parent element, or the zero Node.
func (n Node) Parent() Node {
	if n.n == nil || n.n.Parent == nil || n.n.Parent.Type != html.ElementNode {
		return Node{}
	}
	return Node{n: n.n.Parent}
}

// HasAncestor reports whether any ancestor element has one of the tags.
func (n Node) HasAncestor(tags ...string) bool {
	for p := n.Parent(); !p.IsZero(); p = p.Parent() {
		tag := p.Tag()
		for _, t := range tags {
			if tag == t {
				return true
			}
		}
	}
	return false
}

// Find returns the first descendant matching m in document order.
func (n Node) Find(m cascadia.Matcher) (Node, bool) {
	if n.n == nil {
		return Node{}, false
	}
	found := cascadia.Query(n.n, m)
	if found == nil {
		return Node{}, false
	}
	return Node{n: found}, true
}

// FindAll returns every descendant matching m in document order.
func (n Node) FindAll(m cascadia.Matcher) []Node {
	if n.n == nil {
		return nil
	}
	matches := cascadia.QueryAll(n.n, m)
	out := make([]Node, len(matches))
	for i, match := range matches {
		out[i] = Node{n: match}
	}
	return out
}

// Text returns the flattened text of the node and its descendants.
// Script, style and template contents are not part of the visible text
// and are skipped.
func (n Node) Text() string {
	var b strings.Builder
	collectText(n.n, &b, true)
	return b.String()
}

// RawText returns every descendant text node verbatim, including scripts.
func (n Node) RawText() string {
	var b strings.Builder
	collectText(n.n, &b, false)
	return b.String()
}

// OuterHTML serializes the node and its subtree.
func (n Node) OuterHTML() string {
	if n.n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n.n); err != nil {
		return ""
	}
	return buf.String()
}

func collectText(n *html.Node, b *strings.Builder, visibleOnly bool) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if visibleOnly && isHiddenText(strings.ToLower(n.Data)) {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b, visibleOnly)
	}
}

func isHiddenText(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}
