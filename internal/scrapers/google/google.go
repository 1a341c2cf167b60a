package google

import (
	"context"
	"discord-finder/internal/httpfetch"
	"discord-finder/internal/telemetry"
	"fmt"
)

const (
	report_client_search = "client.search"
)

const (
	DefaultBaseUrl = "https://www.google.com/search"
	// Query is the search term, results are restricted to the last hour (tbs=qdr:h) and
	// similar results are not folded together (filter=0).
	Query = `"discord.gg"`
	// PageSize is the fixed number of results on a result page.
	PageSize = 10
)

func searchURL(baseUrl string, page int) string {
	return fmt.Sprintf("%s?q=%s&tbs=qdr:h&filter=0&start=%d", baseUrl, Query, page*PageSize)
}

// SearchURL returns the url of the result page `page`, the first page is 0.
func SearchURL(page int) string {
	return searchURL(DefaultBaseUrl, page)
}

type ClientOptions struct {
	// BaseUrl is the search endpoint, defaults to DefaultBaseUrl.
	BaseUrl string
	// UserAgent overrides the user agent of httpfetch.SearchProfile.
	UserAgent string
	// Strategy reads results out of a page, defaults to DefaultStrategy.
	Strategy Strategy
}

// Client searches for pages that recently mentioned a discord.gg link.
type Client struct {
	http     *httpfetch.Client
	tel      telemetry.API
	baseUrl  string
	profile  httpfetch.Profile
	strategy Strategy
}

func NewClient(fetcher *httpfetch.Client, tel telemetry.API, opts ClientOptions) Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Strategy == nil {
		opts.Strategy = DefaultStrategy
	}
	return Client{
		http:     fetcher,
		tel:      telemetry.NewScopedAPI("google", tel),
		baseUrl:  opts.BaseUrl,
		profile:  httpfetch.SearchProfile.WithUserAgent(opts.UserAgent),
		strategy: opts.Strategy,
	}
}

// Search loads the result page `page` and returns the urls of its results in page order.
// Only one page is loaded, a page without results is an empty slice.
func (c Client) Search(ctx context.Context, page int) ([]string, error) {
	if page < 0 {
		c.tel.ReportWarning(report_client_search, "negative page", page)
		return nil, httpfetch.ErrInvalidResponse
	}

	res, err := c.http.Get(ctx, searchURL(c.baseUrl, page), c.profile)
	if err != nil {
		return nil, err
	}

	links := c.strategy.Links(ctx, res.Body)
	if links == nil {
		links = []string{}
	}
	c.tel.ReportCount(report_client_search, int64(len(links)))
	return links, nil
}
