package discord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractCode(t *testing.T) {
	testCases := []struct {
		url      string
		code     string
		expected bool
	}{
		{url: "https://discord.com/invite/seaofthievescommunity", code: "seaofthievescommunity", expected: true},
		{url: "https://discord.com/invite/UNWEj54", code: "UNWEj54", expected: true},
		{url: "https://discord.gg/8j8b2xR", code: "8j8b2xR", expected: true},
		{url: "https://discord.gg/Yyakf3", code: "Yyakf3", expected: true},
		{url: "https://example.com/invite/x", expected: false},
		{url: "https://discord.com/invite/", expected: false},
		{url: "https://discord.gg/", expected: false},
		{url: "http://discord.gg/Yyakf3", expected: false},
		{url: "HTTPS://DISCORD.GG/Yyakf3", expected: false},
		{url: "discord.gg/Yyakf3", expected: false},
		{url: "", expected: false},
	}

	for _, test := range testCases {
		code, ok := ExtractCode(test.url)
		require.Equal(t, test.expected, ok, test.url)
		require.Equal(t, test.code, code, test.url)
	}
}

func TestInviteURL(t *testing.T) {
	require.Equal(t, "https://discord.com/invite/Ab3dE9f", InviteURL("Ab3dE9f"))
	require.Equal(t, "https://discord.com/invite/Ab3dE9f", Invite{Code: "Ab3dE9f"}.URL())

	code, ok := ExtractCode(InviteURL("Ab3dE9f"))
	require.True(t, ok)
	require.Equal(t, "Ab3dE9f", code)
}
