package commands

import (
	"testing"

	"neko-backend/internal/scrapers/jkanime"

	"github.com/stretchr/testify/require"
)

func TestBestMatch(t *testing.T) {
	entries := []jkanime.ListingEntry{
		{Title: "Naruto Shippuden", Url: "https://jkanime.net/naruto-shippuden/"},
		{Title: "Naruto", Url: "https://jkanime.net/naruto/"},
		{Title: "Boruto: Naruto Next Generations", Url: "https://jkanime.net/boruto/"},
	}

	best, ok := bestMatch("naruto", entries)
	require.True(t, ok)
	require.Equal(t, "https://jkanime.net/naruto/", best.Url)

	best, ok = bestMatch("naruto shipuden", entries)
	require.True(t, ok)
	require.Equal(t, "https://jkanime.net/naruto-shippuden/", best.Url)

	_, ok = bestMatch("naruto", nil)
	require.False(t, ok)
}

func TestPickEpisode(t *testing.T) {
	details := jkanime.AnimeDetails{
		Title: "One Piece",
		Episodes: []jkanime.EpisodeRef{
			{Name: "Chapter 1", Url: "https://jkanime.net/one-piece/1/"},
			{Name: "Chapter 2", Url: "https://jkanime.net/one-piece/2/"},
		},
	}

	episode, err := pickEpisode(details, 2)
	require.NoError(t, err)
	require.Equal(t, "https://jkanime.net/one-piece/2/", episode.Url)

	for _, n := range []int{0, -1, 3} {
		_, err := pickEpisode(details, n)
		require.Error(t, err)
	}
}
