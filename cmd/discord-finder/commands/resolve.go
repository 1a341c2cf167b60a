package commands

import (
	"discord-finder/internal/scrapers/discord"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var resolveJson *bool

func init() {
	resolveJson = resolveCmd.Flags().Bool("json", false, "Print one json object per invite instead of a table.")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <invite url...>",
	Short: "Prints the metadata of discord.com/invite or discord.gg links.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var invites []discord.Invite
		failed := 0
		for _, url := range args {
			invite, err := discordClient.FetchInvite(cmd.Context(), url)
			if err != nil {
				slog.Error("failed to resolve invite", "url", url, "err", describe(err))
				failed++
				continue
			}
			if *resolveJson {
				err = writeJSON(invite)
				if err != nil {
					return err
				}
				continue
			}
			invites = append(invites, invite)
		}

		if !*resolveJson && len(invites) > 0 {
			renderInvites(invites)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d invites failed", failed, len(args))
		}
		return nil
	},
}
