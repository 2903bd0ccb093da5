// Converts Markdown into a styled PDF using gofpdf.
// Handles headings, paragraphs, code blocks, lists, quotes and tables.
// Images and embedded media appear as their text labels.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/gaurav-prasanna/pagemd/core"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders Markdown content as a PDF document.
type PDFRenderer struct {
	Now Clock
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Now: time.Now}
}

var (
	numberedItem = regexp.MustCompile(`^\d+\.\s`)
	boldMarks    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicMarks  = regexp.MustCompile(`(^|\s)\*([^*]+)\*(\s|$)`)
	codeMarks    = regexp.MustCompile("`+([^`]+)`+")
	imageMarks   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	linkMarks    = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	escapedPipe  = strings.NewReplacer(`\|`, "|")
)

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(result *core.ConversionResult, meta core.PageMetadata) ([]byte, error) {
	stamp := now(r.Now)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	write := func(h float64, s string, fill bool) {
		pdf.MultiCell(0, h, tr(pdfSafe(s)), "", "L", fill)
	}

	title := result.Title
	if title == "" {
		title = meta.Title
	}
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		write(8, title, false)
		pdf.Ln(4)
	}

	if result.URL != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		write(5, "Source: "+result.URL, false)
		write(5, "Downloaded: "+stamp.Format(stampLayout), false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	lines := strings.Split(result.Content, "\n")
	inCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			write(4.5, line, true)
			continue
		}

		switch {
		case trimmed == "":
			pdf.Ln(3)
		case trimmed == "---":
			y := pdf.GetY() + 2
			pdf.SetDrawColor(200, 200, 200)
			pdf.Line(10, y, 200, y)
			pdf.Ln(5)
		case strings.HasPrefix(line, "#"):
			level := len(line) - len(strings.TrimLeft(line, "#"))
			renderHeading(pdf, tr(pdfSafe(cleanInlineMarkdown(strings.TrimLeft(line, "# ")))), level)
		case strings.HasPrefix(trimmed, "|"):
			if strings.Contains(trimmed, "---") {
				continue
			}
			pdf.SetFont("Courier", "", 9)
			write(4.5, escapedPipe.Replace(cleanInlineMarkdown(trimmed)), false)
		case strings.HasPrefix(trimmed, ">"):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(80, 80, 80)
			write(5, cleanInlineMarkdown(strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))), false)
			pdf.SetTextColor(0, 0, 0)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", 10)
			indent := strings.Repeat("  ", (len(line)-len(strings.TrimLeft(line, " ")))/2)
			write(5, indent+"• "+cleanInlineMarkdown(trimmed[2:]), false)
		case numberedItem.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			write(5, cleanInlineMarkdown(trimmed), false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			write(5, cleanInlineMarkdown(line), false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = imageMarks.ReplaceAllString(text, "[Image: $1]")
	text = boldMarks.ReplaceAllString(text, "$1")
	text = italicMarks.ReplaceAllString(text, "$1$2$3")
	text = codeMarks.ReplaceAllString(text, "$1")
	text = linkMarks.ReplaceAllString(text, "$1 ($2)")
	return strings.TrimSpace(text)
}

// pdfSafe drops pictographs and joiners the core fonts cannot draw.
func pdfSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.So, r) || unicode.Is(unicode.Variation_Selector, r) || r == '\u200d' {
			return -1
		}
		return r
	}, s)
}
