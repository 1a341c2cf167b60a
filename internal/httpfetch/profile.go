package httpfetch

import "maps"

// Profile is a named, fixed set of request headers. Every request made through a Client
// carries exactly the headers of the profile it was given.
type Profile struct {
	Name    string
	Headers map[string]string
}

const (
	firefox71 = "Mozilla/5.0 (X11; Linux x86_64; rv:71.0) Gecko/20100101 Firefox/71.0"
	firefox72 = "Mozilla/5.0 (X11; Linux x86_64; rv:72.0) Gecko/20100101 Firefox/72.0"
)

// SearchProfile is used for search engine result pages.
var SearchProfile = Profile{
	Name: "search",
	Headers: map[string]string{
		"Accept":     "text/plain",
		"Host":       "www.google.com",
		"User-Agent": firefox71,
	},
}

// PageProfile is used for arbitrary candidate pages that may mention invites.
var PageProfile = Profile{
	Name: "page",
	Headers: map[string]string{
		"Accept":     "text/plain",
		"User-Agent": firefox71,
	},
}

// DiscordProfile is used for the discord invite api.
var DiscordProfile = Profile{
	Name: "discord",
	Headers: map[string]string{
		"Host":                      "discord.com",
		"User-Agent":                firefox72,
		"Accept":                    "text/html",
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"TE":                        "Trailers",
	},
}

// WithHeader returns a copy of the profile with `key` set to `value`. An empty value
// leaves the profile unchanged.
func (p Profile) WithHeader(key, value string) Profile {
	if value == "" {
		return p
	}
	headers := maps.Clone(p.Headers)
	if headers == nil {
		headers = map[string]string{}
	}
	headers[key] = value
	return Profile{Name: p.Name, Headers: headers}
}

// WithUserAgent is WithHeader for the User-Agent header.
func (p Profile) WithUserAgent(userAgent string) Profile {
	return p.WithHeader("User-Agent", userAgent)
}
