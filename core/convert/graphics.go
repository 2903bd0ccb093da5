package convert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/pagemd/core/dom"
)

// MaxVectorMarkup is the number of characters of raw SVG kept in output.
const MaxVectorMarkup = 5000

var (
	titleSelector  = cascadia.MustCompile("title")
	descSelector   = cascadia.MustCompile("desc")
	useSelector    = cascadia.MustCompile("use")
	scriptSelector = cascadia.MustCompile("script")
)

// Vector renders an inline svg as a label, an optional description and
// its markup inside a collapsed block.
func Vector(n dom.Node, ctx Context) string {
	title := "SVG Graphic"
	if t, ok := n.Find(titleSelector); ok {
		if text := prose(t.Text()); text != "" {
			title = text
		}
	}
	var desc string
	if d, ok := n.Find(descSelector); ok {
		desc = prose(d.Text())
	}

	var b strings.Builder
	b.WriteString("\n")
	if href := useHref(n); href != "" {
		b.WriteString("**[📊 " + title + "]**: [View SVG](" + ctx.resolve(href) + ")\n")
	} else {
		b.WriteString("**[📊 SVG Graphic]**: " + title + "\n")
	}
	if desc != "" {
		b.WriteString("> " + desc + "\n")
	}

	markup, truncated := truncateRunes(n.OuterHTML(), MaxVectorMarkup)
	b.WriteString("\n<details>\n<summary>SVG Code (click to expand)</summary>\n\n```svg\n")
	b.WriteString(markup)
	if truncated {
		b.WriteString("\n... (truncated)")
	}
	b.WriteString("\n```\n\n</details>\n\n")
	return b.String()
}

func useHref(n dom.Node) string {
	use, ok := n.Find(useSelector)
	if !ok {
		return ""
	}
	if href := strings.TrimSpace(use.AttrOr("href", "")); href != "" {
		return href
	}
	return strings.TrimSpace(use.AttrOr("xlink:href", ""))
}

func truncateRunes(s string, limit int) (string, bool) {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// Canvas renders a canvas as its id and pixel size. Drawn content is not
// recoverable from markup.
func Canvas(n dom.Node) string {
	id := strings.TrimSpace(n.AttrOr("id", "canvas"))
	width := dimension(n, "width", 300)
	height := dimension(n, "height", 150)
	return "\n**[🎨 Canvas Graphics]**: " + id + " (" + strconv.Itoa(width) + "x" + strconv.Itoa(height) + ")\n" +
		"> Interactive or dynamic graphic content (cannot be captured)\n\n"
}

// dimension reads a canvas size attribute, falling back to the HTML
// default when it is missing or not a non-negative integer.
func dimension(n dom.Node, attr string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(n.AttrOr(attr, "")))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// Inline chart configuration is scraped with two fixed patterns. This is a
// heuristic; anything it misses falls through to the accessible label.
var (
	chartValues = regexp.MustCompile(`data\s*:\s*\[([\d\s,.\-]+)\]`)
	chartLabels = regexp.MustCompile(`(?s)labels\s*:\s*\[(.*?)\]`)
)

// ChartData holds the raw array literals found in a chart script.
type ChartData struct {
	Labels string
	Values string
}

// ExtractChartData scans inline scripts under n in document order and
// returns the arrays from the first one matching either pattern.
func ExtractChartData(n dom.Node) (ChartData, bool) {
	for _, script := range n.FindAll(scriptSelector) {
		src := script.RawText()
		values := chartValues.FindStringSubmatch(src)
		labels := chartLabels.FindStringSubmatch(src)
		if values == nil && labels == nil {
			continue
		}
		var data ChartData
		if labels != nil {
			data.Labels = strings.TrimSpace(labels[1])
		}
		if values != nil {
			data.Values = strings.TrimSpace(values[1])
		}
		return data, true
	}
	return ChartData{}, false
}

// Chart renders a chart container as a placeholder, with any data the
// inline scripts give away.
func Chart(n dom.Node) string {
	var b strings.Builder
	b.WriteString("\n**[📊 Chart/Graph]**\n")

	if data, ok := ExtractChartData(n); ok {
		b.WriteString("\nExtracted Data:\n")
		if data.Labels != "" {
			b.WriteString("- Labels: " + data.Labels + "\n")
		}
		if data.Values != "" {
			b.WriteString("- Values: " + data.Values + "\n")
		}
		b.WriteString("\n")
	}

	label := prose(n.AttrOr("aria-label", ""))
	if label == "" {
		label = prose(n.AttrOr("title", ""))
	}
	if label == "" {
		label = "Dynamic chart or graph (data not extractable)"
	}
	b.WriteString("> " + label + "\n\n")
	return b.String()
}
