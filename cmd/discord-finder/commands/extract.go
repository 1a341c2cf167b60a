package commands

import (
	"discord-finder/internal/scrapers/intermediary"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [url...]",
	Short: "Prints the invites mentioned by the given pages, or by stdin when no page is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			body, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			policy, err := cfg.Policy()
			if err != nil {
				return err
			}
			for _, invite := range intermediary.ExtractInvites(string(body), policy) {
				fmt.Println(invite)
			}
			return nil
		}

		failed := 0
		for _, url := range args {
			invites, err := pageClient.Resolve(cmd.Context(), url)
			if err != nil {
				slog.Error("failed to load page", "url", url, "err", describe(err))
				failed++
				continue
			}
			for _, invite := range invites {
				fmt.Println(invite)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d pages failed", failed, len(args))
		}
		return nil
	},
}
