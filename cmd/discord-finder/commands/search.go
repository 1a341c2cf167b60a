package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchPage *int

func init() {
	searchPage = searchCmd.Flags().IntP("page", "p", 0, "The result page to load, the first page is 0.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [--page <n>]",
	Short: "Prints the pages found on a single page of search results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		links, err := searchClient.Search(cmd.Context(), *searchPage)
		if err != nil {
			return fmt.Errorf("search page %d: %s", *searchPage, describe(err))
		}
		for _, link := range links {
			fmt.Println(link)
		}
		return nil
	},
}
