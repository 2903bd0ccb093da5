package convert

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/pagemd/core/dom"
	"github.com/gaurav-prasanna/pagemd/core/media"
)

var sourceSelector = cascadia.MustCompile("source")

// Frame renders an iframe as a labeled link to whatever it embeds.
func Frame(n dom.Node, ctx Context) string {
	title := prose(n.AttrOr("title", "Embedded Content"))
	if title == "" {
		title = "Embedded Content"
	}
	src := strings.TrimSpace(n.AttrOr("src", ""))
	if src == "" {
		return "\n> **[Embedded Content]**: " + title + "\n\n"
	}

	abs := ctx.resolve(src)
	embed := media.Classify(abs)
	out := fmt.Sprintf("\n**[%s %s]**: [%s](%s)", embed.Icon, embed.Label, title, abs)
	if embed.VideoID != "" {
		out += "\n- YouTube ID: " + embed.VideoID
	}
	return out + "\n\n"
}

// Video renders a video element as links to its sources.
func Video(n dom.Node, ctx Context) string {
	return playable(n, ctx, "📹 Video", "Video Link", "video")
}

// Audio renders an audio element as links to its sources.
func Audio(n dom.Node, ctx Context) string {
	return playable(n, ctx, "🔊 Audio", "Audio Link", "audio")
}

func playable(n dom.Node, ctx Context, label, linkText, kind string) string {
	out := "\n**[" + label + "]**"

	if src := strings.TrimSpace(n.AttrOr("src", "")); src != "" {
		return out + ": [" + linkText + "](" + ctx.resolve(src) + ")\n\n"
	}

	var lines []string
	for _, source := range n.FindAll(sourceSelector) {
		src := strings.TrimSpace(source.AttrOr("src", ""))
		if src == "" {
			continue
		}
		typ := strings.TrimSpace(source.AttrOr("type", kind))
		lines = append(lines, "- ["+typ+"]("+ctx.resolve(src)+")\n")
	}
	if len(lines) > 0 {
		return out + ":\n" + strings.Join(lines, "") + "\n\n"
	}

	return out + ": (embedded " + kind + " - no source available)\n\n"
}

// Object renders object and embed elements as a single resource link.
func Object(n dom.Node, ctx Context) string {
	ref := strings.TrimSpace(n.AttrOr("src", ""))
	if ref == "" {
		ref = strings.TrimSpace(n.AttrOr("data", ""))
	}
	if ref == "" {
		return ""
	}
	return "\n**[📎 Embedded Object]**: [View Resource](" + ctx.resolve(ref) + ")\n\n"
}
