package convert

import (
	"path"
	"strings"

	"github.com/gaurav-prasanna/pagemd/core/dom"
)

// fileIcons maps lowercase extensions to the icon shown next to a
// download. Unknown extensions get 📎.
var fileIcons = map[string]string{
	"pdf": "📄",
	"doc": "📝", "docx": "📝", "txt": "📝", "rtf": "📝",
	"xls": "📊", "xlsx": "📊", "csv": "📊",
	"zip": "🗜️", "rar": "🗜️", "7z": "🗜️", "tar": "🗜️", "gz": "🗜️",
	"jpg": "🖼️", "jpeg": "🖼️", "png": "🖼️", "gif": "🖼️", "bmp": "🖼️", "svg": "🖼️",
	"mp4": "🎬", "avi": "🎬", "mov": "🎬", "wmv": "🎬", "flv": "🎬",
	"mp3": "🎵", "wav": "🎵", "ogg": "🎵", "flac": "🎵",
}

// Download renders a link to a downloadable file. It is inline: callers
// decide where the surrounding line breaks go.
func Download(n dom.Node, ctx Context) string {
	href := strings.TrimSpace(n.AttrOr("href", ""))
	if href == "" {
		return ""
	}
	text := prose(n.Text())
	if text == "" {
		text = "Download"
	}
	name := FileName(n.AttrOr("download", ""), href)
	return "**[" + FileIcon(name) + " Download]**: [" + text + "](" + ctx.resolve(href) + ") (" + name + ")"
}

// FileName prefers the download attribute, then the last path segment of
// href, then "file".
func FileName(download, href string) string {
	if name := strings.TrimSpace(download); name != "" {
		return name
	}
	if i := strings.LastIndex(href, "/"); i >= 0 {
		href = href[i+1:]
	}
	if href != "" {
		return href
	}
	return "file"
}

// FileIcon picks an icon from the extension of name.
func FileIcon(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if icon, ok := fileIcons[ext]; ok {
		return icon
	}
	return "📎"
}
