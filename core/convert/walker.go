package convert

import (
	"strings"

	"github.com/gaurav-prasanna/pagemd/core/dom"
)

// phrasing lists generic inline elements whose text flows into the
// surrounding line instead of forming a paragraph of its own.
var phrasing = map[string]bool{
	"span": true, "abbr": true, "small": true, "mark": true, "sub": true,
	"sup": true, "time": true, "label": true, "cite": true, "q": true,
	"u": true, "s": true, "del": true, "ins": true, "kbd": true,
	"var": true, "samp": true, "font": true, "dfn": true, "data": true,
}

// Walk converts n and its subtree into a Markdown fragment.
func Walk(n dom.Node, ctx Context) string {
	if ctx.exhausted() {
		return truncatedNotice
	}

	switch n.Kind() {
	case dom.KindSuppressed:
		return ""
	case dom.KindText:
		if n.HasAncestor("ul", "ol") {
			return ""
		}
		return inlineText(n.RawText())

	// Embedded and lossy content.
	case dom.KindFrame:
		return Frame(n, ctx)
	case dom.KindVideo:
		return Video(n, ctx)
	case dom.KindAudio:
		return Audio(n, ctx)
	case dom.KindVector:
		return Vector(n, ctx)
	case dom.KindCanvas:
		return Canvas(n)
	case dom.KindChart:
		return Chart(n)
	case dom.KindTable:
		if t := Table(n); t != "" {
			return "\n" + t + "\n"
		}
		return ""

	// Text flow.
	case dom.KindHeading:
		return heading(n, ctx)
	case dom.KindParagraph:
		return paragraph(n, ctx)
	case dom.KindDownload:
		return Download(n, ctx)
	case dom.KindAnchor:
		return anchor(n, ctx)
	case dom.KindImage:
		return image(n, ctx)
	case dom.KindList:
		return list(n, ctx)
	case dom.KindBlockquote:
		return blockquote(n, ctx)
	case dom.KindInlineCode:
		return inlineCode(n)
	case dom.KindCodeBlock:
		return codeBlock(n)
	case dom.KindBold:
		return emphasis(n, ctx, "**")
	case dom.KindItalic:
		return emphasis(n, ctx, "*")
	case dom.KindRule:
		return "---\n\n"
	case dom.KindLineBreak:
		return "\n"
	case dom.KindFigure:
		return figure(n, ctx)
	case dom.KindObject:
		return Object(n, ctx)
	}

	// Containers, plus rows, cells and items found outside their parents.
	return container(n, ctx)
}

// container renders the children of a generic element in document order.
// Runs of inline content are gathered into one paragraph so they never
// run into the following block.
func container(n dom.Node, ctx Context) string {
	if len(n.ElementChildren()) == 0 {
		return leaf(n)
	}

	var out, run strings.Builder
	flush := func() {
		if text := strings.TrimSpace(run.String()); text != "" {
			out.WriteString(text)
			out.WriteString("\n\n")
		}
		run.Reset()
	}

	next := ctx.child()
	for _, c := range n.Children() {
		if isInline(c) {
			run.WriteString(inlineFragment(c, next))
			continue
		}
		flush()
		out.WriteString(Walk(c, next))
	}
	flush()
	return out.String()
}

// leaf renders an element without element children as its own paragraph.
// Text already emitted by an enclosing list is not repeated.
func leaf(n dom.Node) string {
	text := prose(n.Text())
	if text == "" || n.HasAncestor("ul", "ol") {
		return ""
	}
	return text + "\n\n"
}

func isInline(n dom.Node) bool {
	kind := n.Kind()
	if kind.IsInline() {
		return true
	}
	return kind == dom.KindContainer && phrasing[n.Tag()]
}

// inlineFragment renders n for use inside a line.
func inlineFragment(n dom.Node, ctx Context) string {
	if ctx.exhausted() {
		return truncatedNotice
	}
	if n.Kind() == dom.KindContainer && phrasing[n.Tag()] {
		if n.HasAncestor("ul", "ol") {
			return ""
		}
		var b strings.Builder
		next := ctx.child()
		for _, c := range n.Children() {
			b.WriteString(inlineFragment(c, next))
		}
		return b.String()
	}
	return Walk(n, ctx)
}
