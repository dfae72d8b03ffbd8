// client.go contains the http side of scraping jkanime, extract.go and streams.go
// turn the fetched pages into records.

package jkanime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"neko-backend/internal/components/assert"
	"neko-backend/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_get_recent          = "client.get-recent"
	report_client_search              = "client.search"
	report_client_get_details         = "client.get-details"
	report_client_get_episode_streams = "client.get-episode-streams"
	report_client_skipped_frames      = "client.get-episode-streams.skipped-frames"
)

const (
	BaseUrl = "https://jkanime.net"

	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "en-US,en;q=0.9,es;q=0.8"
	DefaultTimeout        = time.Second * 30

	searchPath = "/buscar/"
)

type Options struct {
	// BaseUrl defaults to https://jkanime.net
	BaseUrl        string
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	// Transport replaces the cloudflare bypass transport when set.
	Transport http.RoundTripper
	// DumpOutput receives every HTTP exchange when set.
	DumpOutput telemetry.MessageOutput
}

func (o Options) withDefaults() Options {
	if o.BaseUrl == "" {
		o.BaseUrl = BaseUrl
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.AcceptLanguage == "" {
		o.AcceptLanguage = DefaultAcceptLanguage
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Client scrapes jkanime. Calls are independent of each other, the underlying
// http client is the only thing shared between them.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	tel telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("jkanime_scraper", tel)
	opts = opts.withDefaults()

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if parsedBaseUrl.Scheme == "" || parsedBaseUrl.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", opts.BaseUrl)
	}
	baseUrl := strings.TrimSuffix(parsedBaseUrl.String(), "/")

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl)
	if opts.Transport != nil {
		httpClient.SetTransport(opts.Transport)
	} else {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetHeader("accept-language", opts.AcceptLanguage)
	httpClient.SetHeader("referer", baseUrl)
	// player pages live on other hosts so redirects cannot be pinned to the base domain
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	httpClient.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(httpClient, tel, opts.DumpOutput)

	c := &Client{
		BaseUrl: parsedBaseUrl,
		Http:    httpClient,
		tel:     tel,
	}
	return c, nil
}

// get issues a GET and parses the body, anything but a 2xx is a NetworkError.
func (c *Client) get(ctx context.Context, endpoint string) (*goquery.Document, []byte, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, nil, &NetworkError{Url: endpoint, Err: err}
	}
	if !res.IsSuccess() {
		return nil, nil, &NetworkError{Url: endpoint, StatusCode: res.StatusCode()}
	}

	body := res.Body()
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, nil, &ParseError{Url: endpoint, Field: "document", Err: err}
	}
	return doc, body, nil
}

// fetch is get with failures reported as broken under reportId.
func (c *Client) fetch(ctx context.Context, reportId, endpoint string) (*goquery.Document, []byte, error) {
	doc, body, err := c.get(ctx, endpoint)
	if err != nil {
		c.tel.ReportBroken(reportId, fmt.Errorf("fetch: %w", err), endpoint)
		return nil, nil, err
	}
	return doc, body, nil
}

// GetRecent returns the trending anime shown on the homepage.
func (c *Client) GetRecent(ctx context.Context) ([]ListingEntry, error) {
	endpoint := "/"
	c.tel.ReportDebug(report_client_get_recent, endpoint)

	doc, _, err := c.fetch(ctx, report_client_get_recent, endpoint)
	if err != nil {
		return nil, err
	}

	entries, err := parseRecent(c.BaseUrl.String(), doc)
	if err != nil {
		c.tel.ReportBroken(report_client_get_recent, err)
		return nil, err
	}
	return entries, nil
}

// Search returns the results of the site's search page, no results is an
// empty slice. A blank query never hits the site.
func (c *Client) Search(ctx context.Context, query string) ([]ListingEntry, error) {
	if strings.TrimSpace(query) == "" {
		return []ListingEntry{}, nil
	}

	endpoint := searchPath + url.PathEscape(query)
	c.tel.ReportDebug(report_client_search, endpoint)

	doc, _, err := c.fetch(ctx, report_client_search, endpoint)
	if err != nil {
		return nil, err
	}

	entries, err := parseSearch(c.Http.BaseURL+endpoint, doc)
	if err != nil {
		c.tel.ReportBroken(report_client_search, err)
		return nil, err
	}
	return entries, nil
}

// GetDetails scrapes an anime page, `animeUrl` is the full url of the page as
// found in a ListingEntry. Episode urls are derived from it so it should keep
// its trailing slash.
func (c *Client) GetDetails(ctx context.Context, animeUrl string) (AnimeDetails, error) {
	c.tel.ReportDebug(report_client_get_details, animeUrl)

	doc, _, err := c.fetch(ctx, report_client_get_details, animeUrl)
	if err != nil {
		return AnimeDetails{}, err
	}

	details, err := parseDetails(animeUrl, doc)
	if err != nil {
		c.tel.ReportBroken(report_client_get_details, err)
		return AnimeDetails{}, err
	}
	return details, nil
}

// GetEpisodeStreams resolves the stream urls of an episode, one request per
// player frame, in order. Frames that resolve to nothing or whose player page
// answers with an error status are left out of the result and reported as
// warnings. A player request that gets no response at all aborts the call.
func (c *Client) GetEpisodeStreams(ctx context.Context, episodeUrl string) ([]StreamLink, error) {
	c.tel.ReportDebug(report_client_get_episode_streams, episodeUrl)

	pageUrl, err := c.BaseUrl.Parse(episodeUrl)
	if err != nil {
		err = &ParseError{Url: episodeUrl, Field: "episode url", Err: err}
		c.tel.ReportBroken(report_client_get_episode_streams, err)
		return nil, err
	}

	_, body, err := c.fetch(ctx, report_client_get_episode_streams, pageUrl.String())
	if err != nil {
		return nil, err
	}

	frames := consideredFrames(findPlayerFrames(string(body)))

	var streams []StreamLink
	var skipped int64
	skip := func(frame SkippedFrame) {
		skipped++
		c.tel.ReportWarning(report_client_get_episode_streams, frame, episodeUrl)
	}

	for i, frameSrc := range frames {
		// srcs may be relative or protocol-relative
		frameUrl, err := pageUrl.Parse(frameSrc)
		if err != nil {
			skip(SkippedFrame{Index: i, FrameUrl: frameSrc, Reason: reasonBadFrameUrl})
			continue
		}

		doc, _, err := c.get(ctx, frameUrl.String())
		var netErr *NetworkError
		if errors.As(err, &netErr) && netErr.StatusCode != 0 {
			skip(SkippedFrame{
				Index:    i,
				FrameUrl: frameUrl.String(),
				Reason:   fmt.Sprintf("%s %d", reasonBadStatus, netErr.StatusCode),
			})
			continue
		}
		if err != nil {
			c.tel.ReportBroken(report_client_get_episode_streams, fmt.Errorf("fetch: %w", err), episodeUrl)
			return nil, err
		}

		src, ok := extractStream(doc)
		if !ok {
			skip(SkippedFrame{Index: i, FrameUrl: frameUrl.String(), Reason: reasonNoStream})
			continue
		}
		streams = append(streams, StreamLink{Index: i, Src: src})
	}
	c.tel.ReportCount(report_client_skipped_frames, skipped)

	return dedupeStreams(streams), nil
}
