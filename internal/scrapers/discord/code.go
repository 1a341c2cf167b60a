package discord

import "strings"

const (
	// InvitePrefix is the prefix of a canonical invite url.
	InvitePrefix = "https://discord.com/invite/"
	// ShortPrefix is the prefix of a discord.gg short link.
	ShortPrefix = "https://discord.gg/"
)

// ExtractCode returns the invite code of a canonical or short invite url. No other url
// shape is recognized: the prefix must match exactly and be followed by at least one
// character.
func ExtractCode(url string) (string, bool) {
	if len(url) > len(InvitePrefix) && strings.HasPrefix(url, InvitePrefix) {
		return url[len(InvitePrefix):], true
	}
	if len(url) > len(ShortPrefix) && strings.HasPrefix(url, ShortPrefix) {
		return url[len(ShortPrefix):], true
	}
	return "", false
}

// InviteURL returns the canonical invite url of an invite code.
func InviteURL(code string) string {
	return InvitePrefix + code
}
