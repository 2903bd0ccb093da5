package convert

import (
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/pagemd/core/dom"
)

var (
	imgSelector        = cascadia.MustCompile("img")
	figcaptionSelector = cascadia.MustCompile("figcaption")
)

// content returns the text of a block, flattened or with inline
// formatting depending on the options.
func content(n dom.Node, ctx Context) string {
	if ctx.opts.InlineFormatting {
		return inlineContent(n, ctx)
	}
	return prose(n.Text())
}

func heading(n dom.Node, ctx Context) string {
	text := content(n, ctx)
	if text == "" {
		return ""
	}
	return strings.Repeat("#", n.HeadingLevel()) + " " + text + "\n\n"
}

func paragraph(n dom.Node, ctx Context) string {
	text := content(n, ctx)
	if text == "" {
		return ""
	}
	return text + "\n\n"
}

func anchor(n dom.Node, ctx Context) string {
	text := content(n, ctx)
	href := strings.TrimSpace(n.AttrOr("href", ""))
	if href == "" || text == "" || isScriptURL(href) {
		return text
	}
	return "[" + text + "](" + ctx.resolve(href) + ")"
}

func isScriptURL(href string) bool {
	return strings.HasPrefix(strings.ToLower(href), "javascript:")
}

func image(n dom.Node, ctx Context) string {
	ref := imageRef(n, ctx, "Image")
	if ref == "" {
		return ""
	}
	return ref + "\n\n"
}

// imageRef renders ![alt](src) plus an italic title, or "" without src.
func imageRef(n dom.Node, ctx Context, defaultAlt string) string {
	src := strings.TrimSpace(n.AttrOr("src", ""))
	if src == "" {
		return ""
	}
	out := "![" + prose(n.AttrOr("alt", defaultAlt)) + "](" + ctx.resolve(src) + ")"
	if title := prose(n.AttrOr("title", "")); title != "" {
		out += " *" + title + "*"
	}
	return out
}

// list numbers the items it actually emits, starting at 1 for every list.
func list(n dom.Node, ctx Context) string {
	var b strings.Builder
	next := ctx.child()
	count := 0
	for _, item := range n.ElementChildren() {
		text, nested := listItem(item, next)
		if text == "" && len(nested) == 0 {
			continue
		}
		count++
		marker := "-"
		if n.Ordered() {
			marker = strconv.Itoa(count) + "."
		}
		b.WriteString(marker + " " + text + "\n")
		pad := strings.Repeat(" ", len(marker)+1)
		for _, sub := range nested {
			b.WriteString(indent(sub, pad))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// listItem returns the item text and, with inline formatting, its nested
// lists rendered separately.
func listItem(item dom.Node, ctx Context) (string, []string) {
	if !ctx.opts.InlineFormatting {
		return prose(item.Text()), nil
	}
	var head strings.Builder
	var nested []string
	next := ctx.child()
	for _, c := range item.Children() {
		if c.Kind() == dom.KindList {
			if sub := strings.TrimRight(list(c, next), "\n"); sub != "" {
				nested = append(nested, sub+"\n")
			}
			continue
		}
		head.WriteString(inlinePiece(c, next))
	}
	return collapse(head.String()), nested
}

func indent(s, pad string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			b.WriteString(pad)
		}
		b.WriteString(line)
	}
	return b.String()
}

func blockquote(n dom.Node, ctx Context) string {
	text := content(n, ctx)
	if text == "" {
		return ""
	}
	return "> " + text + "\n\n"
}

func inlineCode(n dom.Node) string {
	raw := n.RawText()
	if raw == "" {
		return ""
	}
	delim := "`"
	for strings.Contains(raw, delim) {
		delim += "`"
	}
	if delim != "`" {
		return delim + " " + raw + " " + delim
	}
	return "`" + raw + "`"
}

func codeBlock(n dom.Node) string {
	body := strings.TrimSpace(n.RawText())
	if body == "" {
		return ""
	}
	f := fence(body)
	return f + "\n" + body + "\n" + f + "\n\n"
}

func emphasis(n dom.Node, ctx Context, mark string) string {
	text := content(n, ctx)
	if text == "" {
		return ""
	}
	return mark + text + mark
}

// figure prefers its image and caption; anything else is rendered as an
// ordinary container.
func figure(n dom.Node, ctx Context) string {
	img, ok := n.Find(imgSelector)
	if !ok {
		return container(n, ctx)
	}
	ref := imageRef(img, ctx, "Figure")
	if ref == "" {
		return container(n, ctx)
	}
	out := ref + "\n"
	if caption, ok := n.Find(figcaptionSelector); ok {
		if text := prose(caption.Text()); text != "" {
			out += "*" + text + "*\n"
		}
	}
	return out + "\n"
}

// inlineContent renders the children of n on a single line.
func inlineContent(n dom.Node, ctx Context) string {
	var b strings.Builder
	next := ctx.child()
	for _, c := range n.Children() {
		b.WriteString(inlinePiece(c, next))
	}
	return collapse(b.String())
}

func inlinePiece(n dom.Node, ctx Context) string {
	if ctx.exhausted() {
		return ""
	}
	switch kind := n.Kind(); {
	case kind == dom.KindText:
		return inlineText(n.RawText())
	case kind == dom.KindSuppressed:
		return ""
	case kind == dom.KindLineBreak:
		return " "
	case kind == dom.KindImage:
		return " " + imageRef(n, ctx, "Image") + " "
	case kind.IsInline():
		return Walk(n, ctx)
	default:
		return " " + inlineContent(n, ctx) + " "
	}
}
