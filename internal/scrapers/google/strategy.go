package google

import (
	"context"
	"discord-finder/internal/htmlutil"
	"discord-finder/internal/textscan"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// ResultStart and ResultEnd surround the target url of every organic result in the
	// plain text result page.
	ResultStart = `"r"><a href="`
	ResultEnd   = `" onmousedown="return rwt(`
)

// Strategy reads the result urls out of a result page.
type Strategy interface {
	Links(ctx context.Context, body string) []string
}

// DelimiterStrategy returns every span of the page between Start and End, see textscan.Between.
type DelimiterStrategy struct {
	Start string
	End   string
}

// DefaultStrategy is the DelimiterStrategy for organic results.
var DefaultStrategy = DelimiterStrategy{Start: ResultStart, End: ResultEnd}

func (s DelimiterStrategy) Links(_ context.Context, body string) []string {
	return textscan.Between(body, s.Start, s.End)
}

// AnchorStrategy parses the page and returns the distinct absolute http(s) targets of its
// titled anchors that do not point back to google, unwrapping `/url?q=<target>` redirects.
// Anchors without text (thumbnails, icons) are not results.
type AnchorStrategy struct{}

func (AnchorStrategy) Links(ctx context.Context, body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	seen := map[string]struct{}{}
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a[href]")) {
		if anchor.Name == "" {
			continue
		}
		link, ok := resultLink(anchor.Href)
		if !ok {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}

func resultLink(href string) (string, bool) {
	link, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	if link.Path == "/url" && (link.Host == "" || isGoogleHost(link.Hostname())) {
		target := link.Query().Get("q")
		if target == "" {
			target = link.Query().Get("url")
		}
		link, err = url.Parse(target)
		if err != nil {
			return "", false
		}
	}

	if link.Scheme != "http" && link.Scheme != "https" {
		return "", false
	}
	if link.Host == "" || isGoogleHost(link.Hostname()) {
		return "", false
	}
	return link.String(), true
}

func isGoogleHost(host string) bool {
	host = strings.ToLower(host)
	return strings.HasPrefix(host, "google.") ||
		strings.Contains(host, ".google.") ||
		strings.HasSuffix(host, ".googleusercontent.com") ||
		strings.HasSuffix(host, ".gstatic.com")
}
