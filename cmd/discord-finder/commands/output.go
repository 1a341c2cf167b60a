package commands

import (
	"discord-finder/internal/scrapers/discord"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func inviteRow(invite discord.Invite) table.Row {
	guild := ""
	if invite.Guild != nil {
		guild = invite.Guild.Name
	}
	inviter := ""
	if invite.Inviter != nil {
		inviter = invite.Inviter.Username + "#" + invite.Inviter.Discriminator
	}
	return table.Row{
		invite.URL(),
		guild,
		strconv.FormatUint(invite.ApproximateMemberCount, 10),
		strconv.FormatUint(invite.ApproximatePresenceCount, 10),
		deref(invite.Channel.Name),
		inviter,
	}
}

func renderInvites(invites []discord.Invite) {
	t := newTable()
	t.AppendHeader(table.Row{"Invite", "Guild", "Members", "Online", "Channel", "Inviter"})
	for _, invite := range invites {
		t.AppendRow(inviteRow(invite))
	}
	t.Render()
}

// writeJSON writes v as a single line of json to stdout.
func writeJSON(v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(encoded, '\n'))
	return err
}
