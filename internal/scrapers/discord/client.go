package discord

import (
	"context"
	"discord-finder/internal/httpfetch"
	"discord-finder/internal/telemetry"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	report_client_fetch_invite = "client.fetch-invite"
)

const DefaultApiUrl = "https://discord.com/api/v6"

type ClientOptions struct {
	// ApiUrl is the base of the invite endpoint, defaults to DefaultApiUrl.
	ApiUrl string
	// UserAgent overrides the user agent of httpfetch.DiscordProfile.
	UserAgent string
}

// Client resolves invite urls against the discord api. It keeps no state between calls,
// resolving the same invite twice makes two requests.
type Client struct {
	http    *httpfetch.Client
	tel     telemetry.API
	apiUrl  string
	profile httpfetch.Profile
}

func NewClient(fetcher *httpfetch.Client, tel telemetry.API, opts ClientOptions) Client {
	if opts.ApiUrl == "" {
		opts.ApiUrl = DefaultApiUrl
	}
	return Client{
		http:    fetcher,
		tel:     telemetry.NewScopedAPI("discord", tel),
		apiUrl:  opts.ApiUrl,
		profile: httpfetch.DiscordProfile.WithUserAgent(opts.UserAgent),
	}
}

// inviteEndpoint escapes every path segment of code, so that a code carrying `?` or `#`
// stays inside the path.
func (c Client) inviteEndpoint(code string) string {
	segments := strings.Split(code, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/invites/%s?with_counts=true", c.apiUrl, strings.Join(segments, "/"))
}

// FetchInvite resolves a canonical (https://discord.com/invite/<code>) or short
// (https://discord.gg/<code>) invite url.
//
// Any other url shape fails with httpfetch.ErrInvalidResponse before a request is made.
func (c Client) FetchInvite(ctx context.Context, inviteUrl string) (Invite, error) {
	code, ok := ExtractCode(inviteUrl)
	if !ok {
		c.tel.ReportWarning(report_client_fetch_invite, "unrecognized invite url", inviteUrl)
		return Invite{}, httpfetch.ErrInvalidResponse
	}

	res, err := c.http.Get(ctx, c.inviteEndpoint(code), c.profile)
	if err != nil {
		return Invite{}, err
	}
	if res.Status != http.StatusOK {
		c.tel.ReportWarning(report_client_fetch_invite, "unexpected status", code, res.Status)
		return Invite{}, httpfetch.ErrInvalidResponse
	}

	invite, err := DecodeInvite([]byte(res.Body))
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_invite,
			fmt.Errorf("decode invite: %w", err),
			code,
		)
		return Invite{}, httpfetch.ErrInvalidResponse
	}
	return invite, nil
}
