package intermediary

// TokenPolicy decides whether a token scanned after a `discord.gg/` mention is kept.
type TokenPolicy func(token string) bool

// DefaultTokenLength is the only token length accepted by DefaultPolicy.
//
// Invite codes are not fixed width (vanity codes and older codes are shorter or longer), so
// this policy drops real invites. LengthRange widens it.
const DefaultTokenLength = 7

// DefaultPolicy accepts tokens of exactly DefaultTokenLength characters.
var DefaultPolicy = ExactLength(DefaultTokenLength)

// ExactLength accepts tokens of exactly n characters.
func ExactLength(n int) TokenPolicy {
	return func(token string) bool {
		return len(token) == n
	}
}

// LengthRange accepts tokens whose length is within [min, max].
func LengthRange(min, max int) TokenPolicy {
	return func(token string) bool {
		return len(token) >= min && len(token) <= max
	}
}
