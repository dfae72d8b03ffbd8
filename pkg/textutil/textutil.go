package textutil

import (
	"regexp"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

type Ranked struct {
	// Index is the position of the title in the input slice.
	Index      int
	Title      string
	Similarity float64
}

// RankByTitle orders titles by their Jaro-Winkler similarity to the query,
// most similar first. Ties keep their input order.
func RankByTitle(query string, titles []string) []Ranked {
	query = NormalizeName(query)

	ranked := make([]Ranked, len(titles))
	for i, title := range titles {
		normalized := NormalizeName(title)
		similarity := matchr.JaroWinkler(query, normalized, false)
		if normalized == query {
			similarity = 1
		}
		ranked[i] = Ranked{
			Index:      i,
			Title:      title,
			Similarity: similarity,
		}
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})
	return ranked
}
