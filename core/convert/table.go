package convert

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/pagemd/core/dom"
	"golang.org/x/net/html"
)

var rowSelector = cascadia.MustCompile("tr")

// Table renders a pipe table. The first row with cells is always the
// header. Rows of nested tables are left to the nested table's own cells.
func Table(n dom.Node) string {
	var b strings.Builder
	header := true
	for _, row := range Rows(n) {
		cells := Cells(row)
		if len(cells) == 0 {
			continue
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if header {
			b.WriteString("|" + strings.Repeat(" --- |", len(cells)) + "\n")
			header = false
		}
	}
	return b.String()
}

// Rows returns the tr elements owned by table, in document order.
func Rows(table dom.Node) []dom.Node {
	var rows []dom.Node
	for _, tr := range table.FindAll(rowSelector) {
		if owner(tr) == table.HTML() {
			rows = append(rows, tr)
		}
	}
	return rows
}

// Cells returns the escaped, single-line text of the th and td children
// of row.
func Cells(row dom.Node) []string {
	var cells []string
	for _, c := range row.ElementChildren() {
		switch c.Tag() {
		case "th", "td":
			cells = append(cells, escapeCell(prose(c.Text())))
		}
	}
	return cells
}

func owner(tr dom.Node) *html.Node {
	for p := tr.Parent(); !p.IsZero(); p = p.Parent() {
		if p.Tag() == "table" {
			return p.HTML()
		}
	}
	return nil
}
