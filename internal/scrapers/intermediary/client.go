package intermediary

import (
	"context"
	"discord-finder/internal/httpfetch"
	"discord-finder/internal/telemetry"
)

const (
	report_client_resolve = "client.resolve"
)

type ClientOptions struct {
	// Policy filters scanned tokens, defaults to DefaultPolicy.
	Policy TokenPolicy
	// UserAgent overrides the user agent of httpfetch.PageProfile.
	UserAgent string
}

// Client fetches candidate pages and extracts the invites they mention.
type Client struct {
	http    *httpfetch.Client
	tel     telemetry.API
	policy  TokenPolicy
	profile httpfetch.Profile
}

func NewClient(fetcher *httpfetch.Client, tel telemetry.API, opts ClientOptions) Client {
	if opts.Policy == nil {
		opts.Policy = DefaultPolicy
	}
	return Client{
		http:    fetcher,
		tel:     telemetry.NewScopedAPI("intermediary", tel),
		policy:  opts.Policy,
		profile: httpfetch.PageProfile.WithUserAgent(opts.UserAgent),
	}
}

// Resolve fetches the page at url and returns the canonical invite urls it mentions.
// The status code of the page is not inspected, error pages are scanned like any other.
func (c Client) Resolve(ctx context.Context, url string) ([]string, error) {
	res, err := c.http.Get(ctx, url, c.profile)
	if err != nil {
		return nil, err
	}

	invites := ExtractInvites(res.Body, c.policy)
	c.tel.ReportDebug(report_client_resolve, url, len(invites))
	return invites, nil
}
