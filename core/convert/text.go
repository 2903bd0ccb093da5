package convert

import (
	"strings"
)

// collapse folds whitespace runs into single spaces and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// prose turns flattened node text into a single line. The parser has
// already decoded entities, so the text is emitted as displayed.
func prose(s string) string {
	return collapse(s)
}

// inlineText keeps a single leading and trailing space so adjacent
// inline fragments stay separated.
func inlineText(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	body := prose(s)
	if body == "" {
		return ""
	}
	if isSpace(s[0]) {
		body = " " + body
	}
	if isSpace(s[len(s)-1]) {
		body += " "
	}
	return body
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// escapeCell keeps a value from breaking out of its table column.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// fence picks a backtick fence longer than any run inside body.
func fence(body string) string {
	f := "```"
	for strings.Contains(body, f) {
		f += "`"
	}
	return f
}
