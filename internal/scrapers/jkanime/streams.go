package jkanime

import (
	"html"
	"regexp"
	"strings"

	"neko-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	playerFrameRegex = regexp.MustCompile(`<iframe[^>]*class="player_conte"[^>]*src="([^"]+)"`)
	playlistRegex    = regexp.MustCompile(`url:\s*'([^']+\.m3u8)'`)
)

const (
	reasonNoStream    = "no <source> element or m3u8 playlist script"
	reasonBadStatus   = "player page returned status"
	reasonBadFrameUrl = "unparsable frame url"
)

// findPlayerFrames returns the src of every player iframe in document order,
// matched against the raw body rather than the parsed tree.
func findPlayerFrames(body string) []string {
	matches := playerFrameRegex.FindAllStringSubmatch(body, -1)
	frames := make([]string, len(matches))
	for i, m := range matches {
		frames[i] = html.UnescapeString(m[1])
	}
	return frames
}

// consideredFrames drops the last player frame, the site always appends an
// unusable frame after the real players.
func consideredFrames(frames []string) []string {
	if len(frames) == 0 {
		return nil
	}
	return frames[:len(frames)-1]
}

// extractStream finds the media url on a player page: a direct <source> tag
// wins, otherwise the first inline script configuring an m3u8 playlist.
func extractStream(doc *goquery.Document) (string, bool) {
	src := strings.TrimSpace(doc.Find("source").First().AttrOr("src", ""))
	if src != "" {
		return src, true
	}

	for _, script := range doc.Find("script").Nodes {
		text := htmlutil.GetText(script)
		if text == "" {
			continue
		}
		groups := playlistRegex.FindStringSubmatch(text)
		if len(groups) < 2 {
			continue
		}
		return groups[1], true
	}

	return "", false
}

// dedupeStreams keeps the first stream for each src, in order.
func dedupeStreams(streams []StreamLink) []StreamLink {
	seen := make(map[string]struct{}, len(streams))
	out := make([]StreamLink, 0, len(streams))
	for _, s := range streams {
		if _, ok := seen[s.Src]; ok {
			continue
		}
		seen[s.Src] = struct{}{}
		out = append(out, s)
	}
	return out
}
