package commands

import (
	"discord-finder/internal/finder"
	"discord-finder/internal/scrapers/discord"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var (
	findPages *int
	findJson  *bool
)

func init() {
	findPages = findCmd.Flags().Int("pages", 0, "The number of result pages to search, overrides the config.")
	findJson = findCmd.Flags().Bool("json", false, "Print one json object per invite as soon as it resolves.")
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find [--pages <n>] [--json]",
	Short: "Searches, loads every result and resolves every invite found on them.",
	Run: func(cmd *cobra.Command, args []string) {
		pages := cfg.Pages
		if *findPages > 0 {
			pages = *findPages
		}

		f := finder.New(searchClient, pageClient, discordClient, tel, finder.Options{
			Pages:             pages,
			Concurrency:       cfg.Concurrency,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})

		var invites []discord.Invite
		t1 := time.Now()
		err := f.Run(cmd.Context(), func(invite discord.Invite) {
			if *findJson {
				err := writeJSON(invite)
				if err != nil {
					slog.Error("failed to write invite", "err", err)
				}
				return
			}
			invites = append(invites, invite)
		})
		t2 := time.Now()

		if !*findJson {
			renderInvites(invites)
		}
		if err != nil {
			slog.Warn("some requests failed", "err", err)
		}
		slog.Info("finding time", "seconds", t2.Sub(t1).Seconds(), "invites", len(invites))
	},
}
