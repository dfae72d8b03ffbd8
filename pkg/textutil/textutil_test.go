package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "Naruto", expected: "naruto"},
		{input: "  One   Piece\n", expected: "one piece"},
		{input: "Shingeki no\tKyojin", expected: "shingeki no kyojin"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, NormalizeName(row.input))
	}
}

func TestRankByTitle(t *testing.T) {
	titles := []string{
		"Boruto: Naruto Next Generations",
		"Naruto Shippuden",
		"Naruto",
		"One Piece",
	}

	ranked := RankByTitle("naruto", titles)
	require.Len(t, ranked, len(titles))
	require.Equal(t, "Naruto", ranked[0].Title)
	require.Equal(t, 2, ranked[0].Index)
	require.Equal(t, float64(1), ranked[0].Similarity)
	require.Equal(t, "Naruto Shippuden", ranked[1].Title)

	for i := 1; i < len(ranked); i++ {
		require.GreaterOrEqual(t, ranked[i-1].Similarity, ranked[i].Similarity)
	}
}

func TestRankByTitleEmpty(t *testing.T) {
	require.Empty(t, RankByTitle("naruto", nil))
}
