package intermediary

import (
	"discord-finder/internal/scrapers/discord"
	"discord-finder/internal/textscan"
	"strings"
)

// Marker is the literal mention that precedes every invite token in a page.
const Marker = "discord.gg/"

// ExtractInvites returns the canonical invite urls of every token found after a Marker
// in body, in order of first appearance and without duplicates.
//
// The body is treated as untrusted text, it is never parsed as html. Scanning moves just
// past each Marker rather than past the token, so adjacent mentions are all visited.
// A nil policy is DefaultPolicy.
func ExtractInvites(body string, policy TokenPolicy) []string {
	if policy == nil {
		policy = DefaultPolicy
	}

	invites := []string{}
	seen := map[string]struct{}{}
	for {
		i := strings.Index(body, Marker)
		if i < 0 {
			return invites
		}
		body = body[i+len(Marker):]

		token := textscan.While(body, textscan.IsTokenByte)
		if !policy(token) {
			continue
		}

		url := discord.InviteURL(token)
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		invites = append(invites, url)
	}
}
