package jkanime

// ListingEntry is an anime summary as shown on the homepage or in search results.
type ListingEntry struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Url       string `json:"url"`
	Type      string `json:"type"`
	Status    string `json:"status"`
}

// Link is a named anchor on a details page (genre, studio, season).
type Link struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

type EpisodeRef struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

type AnimeDetails struct {
	Title     string       `json:"title"`
	Synopsis  string       `json:"synopsis"`
	Thumbnail string       `json:"thumbnail"`
	Type      string       `json:"type"`
	Status    string       `json:"status"`
	Genres    []Link       `json:"genres"`
	Studios   []Link       `json:"studios"`
	Season    Link         `json:"season"`
	Episodes  []EpisodeRef `json:"episodes"`
}

// StreamLink is a playable media url resolved from one of the player iframes
// of an episode page.
type StreamLink struct {
	// Index is the zero-based position of the iframe the stream was found in.
	Index int    `json:"index"`
	Src   string `json:"src"`
}

// SkippedFrame describes a player iframe that did not yield a stream, it is
// reported through telemetry rather than returned.
type SkippedFrame struct {
	Index    int
	FrameUrl string
	Reason   string
}
