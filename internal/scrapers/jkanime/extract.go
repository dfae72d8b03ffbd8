// extract.go maps parsed pages into records. Almost every field on the site is
// located by position (nth card, nth list item) rather than by a stable
// selector, so any reordering of the markup either extracts the wrong value or
// fails with a ParseError. Nothing here tries to recover from that.

package jkanime

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"neko-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type extractor struct {
	pageUrl string
}

func (e extractor) fail(field string, err error) error {
	return &ParseError{Url: e.pageUrl, Field: field, Err: err}
}

func (e extractor) first(sel *goquery.Selection, selector, field string) (*goquery.Selection, error) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, e.fail(field, fmt.Errorf("%w: %s", ErrMissingElement, selector))
	}
	return found, nil
}

// nth returns the n-th (zero-based) match of selector under sel, negative
// values count from the end like a python index would.
func (e extractor) nth(sel *goquery.Selection, selector string, n int, field string) (*goquery.Selection, error) {
	matches := sel.Find(selector)
	idx := n
	if idx < 0 {
		idx = matches.Length() + n
	}
	if idx < 0 || idx >= matches.Length() {
		return nil, e.fail(field, fmt.Errorf(
			"%w: %s[%d] of %d", ErrOutOfRange, selector, n, matches.Length(),
		))
	}
	return matches.Eq(idx), nil
}

func (e extractor) text(sel *goquery.Selection, selector, field string) (string, error) {
	found, err := e.first(sel, selector, field)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(found.Text()), nil
}

func (e extractor) nthText(sel *goquery.Selection, selector string, n int, field string) (string, error) {
	found, err := e.nth(sel, selector, n, field)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(found.Text()), nil
}

func (e extractor) attr(sel *goquery.Selection, selector, attr, field string) (string, error) {
	found, err := e.first(sel, selector, field)
	if err != nil {
		return "", err
	}
	value, exists := found.Attr(attr)
	if !exists {
		return "", e.fail(field, fmt.Errorf("%w: %s[%s]", ErrMissingElement, selector, attr))
	}
	return strings.TrimSpace(value), nil
}

func (e extractor) required(value, field string) (string, error) {
	if value == "" {
		return "", e.fail(field, ErrEmptyValue)
	}
	return value, nil
}

func (e extractor) links(sel *goquery.Selection) []Link {
	base, err := url.Parse(e.pageUrl)
	if err != nil {
		base = nil
	}
	anchors := htmlutil.GetAnchors(base, sel.Find("a"))
	links := make([]Link, len(anchors))
	for i, a := range anchors {
		links[i] = Link{
			Name: a.Name,
			Url:  a.Url.String(),
		}
	}
	return links
}

func parseRecent(pageUrl string, doc *goquery.Document) ([]ListingEntry, error) {
	e := extractor{pageUrl: pageUrl}

	// only the first trending block is read, later ones are other categories
	trending, err := e.first(doc.Selection, "div.trending_div", "trending container")
	if err != nil {
		return nil, err
	}

	cards := trending.Find("div.p-3")
	entries := make([]ListingEntry, 0, cards.Length())
	for i := range cards.Nodes {
		entry, err := parseRecentCard(e, cards.Eq(i))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// card layout: <p>status</p> <img src> <h5><a href>title</a></h5> <p>type</p>
func parseRecentCard(e extractor, card *goquery.Selection) (ListingEntry, error) {
	status, err := e.nthText(card, "p", 0, "recent status")
	if err != nil {
		return ListingEntry{}, err
	}
	thumbnail, err := e.attr(card, "img", "src", "recent thumbnail")
	if err != nil {
		return ListingEntry{}, err
	}
	title, err := e.text(card, "h5", "recent title")
	if err != nil {
		return ListingEntry{}, err
	}
	title, err = e.required(title, "recent title")
	if err != nil {
		return ListingEntry{}, err
	}
	animeType, err := e.nthText(card, "p", 1, "recent type")
	if err != nil {
		return ListingEntry{}, err
	}
	heading := card.Find("h5").First()
	link, err := e.attr(heading, "a", "href", "recent url")
	if err != nil {
		return ListingEntry{}, err
	}
	link, err = e.required(link, "recent url")
	if err != nil {
		return ListingEntry{}, err
	}

	return ListingEntry{
		Title:     title,
		Thumbnail: thumbnail,
		Url:       link,
		Type:      animeType,
		Status:    status,
	}, nil
}

func parseSearch(pageUrl string, doc *goquery.Document) ([]ListingEntry, error) {
	e := extractor{pageUrl: pageUrl}

	items := doc.Find("div.anime__item")
	entries := make([]ListingEntry, 0, items.Length())
	for i := range items.Nodes {
		entry, err := parseSearchItem(e, items.Eq(i))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// item layout: <div class="anime__item__pic" data-setbg> <ul><li>status</li><li>type</li></ul>
// <h5><a href>title</a></h5>
func parseSearchItem(e extractor, item *goquery.Selection) (ListingEntry, error) {
	status, err := e.nthText(item, "li", 0, "search status")
	if err != nil {
		return ListingEntry{}, err
	}
	animeType, err := e.nthText(item, "li", 1, "search type")
	if err != nil {
		return ListingEntry{}, err
	}
	thumbnail, err := e.attr(item, "div.anime__item__pic", "data-setbg", "search thumbnail")
	if err != nil {
		return ListingEntry{}, err
	}
	title, err := e.text(item, "h5", "search title")
	if err != nil {
		return ListingEntry{}, err
	}
	title, err = e.required(title, "search title")
	if err != nil {
		return ListingEntry{}, err
	}
	heading := item.Find("h5").First()
	link, err := e.attr(heading, "a", "href", "search url")
	if err != nil {
		return ListingEntry{}, err
	}
	link, err = e.required(link, "search url")
	if err != nil {
		return ListingEntry{}, err
	}

	return ListingEntry{
		Title:     title,
		Thumbnail: thumbnail,
		Url:       link,
		Type:      animeType,
		Status:    status,
	}, nil
}

const typePrefix = "Tipo: "

func parseDetails(animeUrl string, doc *goquery.Document) (AnimeDetails, error) {
	e := extractor{pageUrl: animeUrl}

	content, err := e.first(doc.Selection, "div.anime__details__content", "details container")
	if err != nil {
		return AnimeDetails{}, err
	}

	info, err := e.first(content, "div.anime_info", "info block")
	if err != nil {
		return AnimeDetails{}, err
	}
	title, err := e.text(info, "h3", "title")
	if err != nil {
		return AnimeDetails{}, err
	}
	synopsis, err := e.text(info, "p", "synopsis")
	if err != nil {
		return AnimeDetails{}, err
	}

	picture, err := e.first(content, "div.anime_pic", "picture block")
	if err != nil {
		return AnimeDetails{}, err
	}
	thumbnail, err := e.attr(picture, "img", "src", "thumbnail")
	if err != nil {
		return AnimeDetails{}, err
	}

	// genres are the anchors of the second item of the data list
	data, err := e.first(content, "div.anime_data", "data block")
	if err != nil {
		return AnimeDetails{}, err
	}
	genreItem, err := e.nth(data, "li", 1, "genres")
	if err != nil {
		return AnimeDetails{}, err
	}

	// the card list is read purely by position:
	// 0 = type, 2 = studios, 3 = season, second to last = status
	card, err := e.first(content, "div.card-bod", "card block")
	if err != nil {
		return AnimeDetails{}, err
	}
	cardList, err := e.first(card, "ul", "card list")
	if err != nil {
		return AnimeDetails{}, err
	}

	typeItem, err := e.nthText(cardList, "li", 0, "type")
	if err != nil {
		return AnimeDetails{}, err
	}
	animeType := strings.TrimSpace(strings.ReplaceAll(typeItem, typePrefix, ""))

	studioItem, err := e.nth(cardList, "li", 2, "studios")
	if err != nil {
		return AnimeDetails{}, err
	}

	seasonItem, err := e.nth(cardList, "li", 3, "season")
	if err != nil {
		return AnimeDetails{}, err
	}
	seasons := e.links(seasonItem)
	if len(seasons) == 0 {
		return AnimeDetails{}, e.fail("season", fmt.Errorf("%w: li[3] a", ErrMissingElement))
	}

	statusItem, err := e.nth(cardList, "li", -2, "status")
	if err != nil {
		return AnimeDetails{}, err
	}
	status, err := e.text(statusItem, "div", "status")
	if err != nil {
		return AnimeDetails{}, err
	}

	lastEpisodeText, err := e.text(content, "a#uep", "last episode")
	if err != nil {
		return AnimeDetails{}, err
	}
	lastEpisode, err := parseLastEpisode(lastEpisodeText)
	if err != nil {
		return AnimeDetails{}, e.fail("last episode", err)
	}

	return AnimeDetails{
		Title:     title,
		Synopsis:  synopsis,
		Thumbnail: thumbnail,
		Type:      animeType,
		Status:    status,
		Genres:    e.links(genreItem),
		Studios:   e.links(studioItem),
		Season:    seasons[0],
		Episodes:  episodeRefs(animeUrl, lastEpisode),
	}, nil
}

// maxEpisodes bounds the count read off the page, the episode list is
// allocated up front.
const maxEpisodes = 10000

// parseLastEpisode reads the episode count out of the "last episode" anchor,
// which reads like "Episodio 1 - 24 ...": the number right after the first hyphen.
func parseLastEpisode(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), "-")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: no hyphen in %q", ErrOutOfRange, text)
	}
	number := strings.Split(strings.TrimSpace(parts[1]), " ")[0]
	count, err := strconv.Atoi(number)
	if err != nil {
		return 0, fmt.Errorf("episode count %q: %w", number, err)
	}
	if count < 0 || count > maxEpisodes {
		return 0, fmt.Errorf("%w: episode count %d not in [0, %d]", ErrOutOfRange, count, maxEpisodes)
	}
	return count, nil
}

func episodeRefs(animeUrl string, count int) []EpisodeRef {
	episodes := make([]EpisodeRef, count)
	for i := 0; i < count; i++ {
		n := i + 1
		episodes[i] = EpisodeRef{
			Name: fmt.Sprintf("Chapter %d", n),
			Url:  fmt.Sprintf("%s%d/", animeUrl, n),
		}
	}
	return episodes
}
