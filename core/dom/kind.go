package dom

import (
	"regexp"
	"strings"
)

// Kind is the closed set of node categories the converter dispatches on.
type Kind int

const (
	KindText Kind = iota
	KindContainer
	KindSuppressed
	KindHeading
	KindParagraph
	KindAnchor
	KindDownload
	KindImage
	KindList
	KindListItem
	KindBlockquote
	KindInlineCode
	KindCodeBlock
	KindBold
	KindItalic
	KindRule
	KindLineBreak
	KindTable
	KindTableRow
	KindTableCell
	KindFrame
	KindVideo
	KindAudio
	KindVector
	KindCanvas
	KindChart
	KindObject
	KindFigure
)

var kindNames = map[Kind]string{
	KindText:       "text",
	KindContainer:  "container",
	KindSuppressed: "suppressed",
	KindHeading:    "heading",
	KindParagraph:  "paragraph",
	KindAnchor:     "anchor",
	KindDownload:   "download",
	KindImage:      "image",
	KindList:       "list",
	KindListItem:   "list-item",
	KindBlockquote: "blockquote",
	KindInlineCode: "inline-code",
	KindCodeBlock:  "code-block",
	KindBold:       "bold",
	KindItalic:     "italic",
	KindRule:       "rule",
	KindLineBreak:  "line-break",
	KindTable:      "table",
	KindTableRow:   "table-row",
	KindTableCell:  "table-cell",
	KindFrame:      "frame",
	KindVideo:      "video",
	KindAudio:      "audio",
	KindVector:     "vector",
	KindCanvas:     "canvas",
	KindChart:      "chart",
	KindObject:     "object",
	KindFigure:     "figure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsInline reports whether nodes of this kind flow inside a line rather
// than forming their own block.
func (k Kind) IsInline() bool {
	switch k {
	case KindText, KindAnchor, KindDownload, KindInlineCode, KindBold, KindItalic, KindLineBreak:
		return true
	}
	return false
}

// classifier is one step of the ordered classification chain. It returns
// false when the node is not its concern.
type classifier func(n Node) (Kind, bool)

// chain is evaluated top to bottom; the first match wins. Reordering it
// changes output, e.g. a chart-classed svg must stay a vector graphic.
var chain = []classifier{
	suppressed,
	embedded,
	chart,
	table,
	standard,
}

// Classify returns the kind of n.
func Classify(n Node) Kind {
	if n.IsZero() {
		return KindSuppressed
	}
	if n.IsText() {
		return KindText
	}
	if !n.IsElement() {
		return KindSuppressed
	}
	for _, step := range chain {
		if kind, ok := step(n); ok {
			return kind
		}
	}
	return KindContainer
}

// Kind classifies the node.
func (n Node) Kind() Kind {
	return Classify(n)
}

// HeadingLevel returns 1-6 for h1-h6 and 0 otherwise.
func (n Node) HeadingLevel() int {
	tag := n.Tag()
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// Ordered reports whether a list node is numbered.
func (n Node) Ordered() bool {
	return n.Tag() == "ol"
}

func suppressed(n Node) (Kind, bool) {
	switch n.Tag() {
	case "script", "style", "noscript", "template", "head":
		return KindSuppressed, true
	}
	return 0, false
}

func embedded(n Node) (Kind, bool) {
	switch n.Tag() {
	case "iframe":
		return KindFrame, true
	case "video":
		return KindVideo, true
	case "audio":
		return KindAudio, true
	case "svg":
		return KindVector, true
	case "canvas":
		return KindCanvas, true
	}
	return 0, false
}

var chartClasses = []string{"chart", "graph", "plotly", "chartjs"}

// IsChart reports whether the element looks like a chart container.
func IsChart(n Node) bool {
	for _, class := range chartClasses {
		if n.HasClass(class) {
			return true
		}
	}
	role, _ := n.Attr("role")
	return role == "img"
}

func chart(n Node) (Kind, bool) {
	if IsChart(n) {
		return KindChart, true
	}
	return 0, false
}

func table(n Node) (Kind, bool) {
	switch n.Tag() {
	case "table":
		return KindTable, true
	case "tr":
		return KindTableRow, true
	case "th", "td":
		return KindTableCell, true
	}
	return 0, false
}

var downloadHref = regexp.MustCompile(`(?i)\.(pdf|doc|docx|xls|xlsx|zip|rar)$`)

// IsDownload reports whether an anchor points at a downloadable file.
func IsDownload(n Node) bool {
	if n.Tag() != "a" {
		return false
	}
	if n.HasAttr("download") {
		return true
	}
	href, ok := n.Attr("href")
	return ok && downloadHref.MatchString(strings.TrimSpace(href))
}

func standard(n Node) (Kind, bool) {
	if n.HeadingLevel() > 0 {
		return KindHeading, true
	}
	switch n.Tag() {
	case "p":
		return KindParagraph, true
	case "a":
		if IsDownload(n) {
			return KindDownload, true
		}
		return KindAnchor, true
	case "img":
		return KindImage, true
	case "ul", "ol":
		return KindList, true
	case "li":
		return KindListItem, true
	case "blockquote":
		return KindBlockquote, true
	case "code":
		return KindInlineCode, true
	case "pre":
		return KindCodeBlock, true
	case "strong", "b":
		return KindBold, true
	case "em", "i":
		return KindItalic, true
	case "hr":
		return KindRule, true
	case "br":
		return KindLineBreak, true
	case "figure":
		return KindFigure, true
	case "object", "embed":
		return KindObject, true
	}
	return 0, false
}
