// Package media handles the non-text side of incoming messages: deciding
// whether a snippet references parseable media, and saving extracted payloads
// to disk.
package media

import (
	"regexp"
	"strings"
)

// Link kinds the sniffer recognizes in snippet text.
const (
	KindNone    = ""
	KindYouTube = "youtube"
	KindImage   = "image"
	KindWeb     = "web"
)

var (
	urlPattern     = regexp.MustCompile(`https?://[^\s]+`)
	youtubePattern = regexp.MustCompile(`(?i)(youtube\.com/watch|youtu\.be/)`)
	imageExts      = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}
)

// Sniff reports whether text contains a recognizable media reference worth
// handing to the media parser.
func Sniff(text string) bool {
	return Classify(text) != KindNone
}

// Classify returns the kind of media reference found in text, or KindNone.
// Only the first URL in the text is considered.
func Classify(text string) string {
	url := urlPattern.FindString(text)
	if url == "" {
		return KindNone
	}

	if youtubePattern.MatchString(url) {
		return KindYouTube
	}

	lower := strings.ToLower(url)
	// Strip query string before checking the extension.
	if i := strings.IndexByte(lower, '?'); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range imageExts {
		if strings.HasSuffix(lower, ext) {
			return KindImage
		}
	}

	return KindWeb
}
