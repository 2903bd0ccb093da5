// Package media classifies embedded resources by the service hosting them.
package media

import (
	"net/url"
	"regexp"
	"strings"
)

// Category is the kind of service an embed points at.
type Category string

const (
	CategoryYouTube    Category = "video-youtube"
	CategoryVimeo      Category = "video-vimeo"
	CategoryMap        Category = "map"
	CategorySocialPost Category = "social-post"
	CategoryImageHost  Category = "image-host"
	CategoryGeneric    Category = "generic"
)

// Embed describes a classified embed URL.
type Embed struct {
	Category Category
	Icon     string
	Label    string
	// VideoID is the 11-character YouTube identifier, when one was found.
	VideoID string
}

// hostRule matches a host (exactly or as a dot-suffix) and, optionally,
// a path prefix.
type hostRule struct {
	host       string
	pathPrefix string
	category   Category
	icon       string
	label      string
}

// rules are checked in order; the first match wins.
var rules = []hostRule{
	{host: "youtube.com", category: CategoryYouTube, icon: "📹", label: "Video"},
	{host: "youtu.be", category: CategoryYouTube, icon: "📹", label: "Video"},
	{host: "vimeo.com", category: CategoryVimeo, icon: "📹", label: "Video"},
	{host: "maps.google.com", category: CategoryMap, icon: "🗺️", label: "Map"},
	{host: "google.com", pathPrefix: "/maps", category: CategoryMap, icon: "🗺️", label: "Map"},
	{host: "twitter.com", category: CategorySocialPost, icon: "🐦", label: "Tweet"},
	{host: "x.com", category: CategorySocialPost, icon: "🐦", label: "Tweet"},
	{host: "instagram.com", category: CategoryImageHost, icon: "📷", label: "Instagram Post"},
}

var generic = Embed{Category: CategoryGeneric, Icon: "🔗", Label: "Embedded Content"}

var youTubeIDRe = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// Classify identifies the service behind an absolute embed URL.
func Classify(absURL string) Embed {
	host, path, ok := hostAndPath(absURL)
	for _, r := range rules {
		if !r.matches(absURL, host, path, ok) {
			continue
		}
		e := Embed{Category: r.category, Icon: r.icon, Label: r.label}
		if r.category == CategoryYouTube {
			e.VideoID, _ = YouTubeID(absURL)
		}
		return e
	}
	return generic
}

// YouTubeID extracts an 11-character video identifier from any of the
// common YouTube URL shapes.
func YouTubeID(rawURL string) (string, bool) {
	m := youTubeIDRe.FindStringSubmatch(rawURL)
	if m == nil || len(m[2]) != 11 {
		return "", false
	}
	return m[2], true
}

func (r hostRule) matches(raw, host, path string, parsed bool) bool {
	if !parsed {
		return strings.Contains(strings.ToLower(raw), r.host+r.pathPrefix)
	}
	if host != r.host && !strings.HasSuffix(host, "."+r.host) {
		return false
	}
	return r.pathPrefix == "" || strings.HasPrefix(path, r.pathPrefix)
}

func hostAndPath(raw string) (string, string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", "", false
	}
	return strings.ToLower(u.Hostname()), u.EscapedPath(), true
}
