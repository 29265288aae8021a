package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/quote-scraper/internal/httputil"
	"github.com/pdiddy/quote-scraper/internal/scrape"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print the first hyperlinks found on the page",
	Long: `Links fetches the page on its own and prints the first links in document
order with their text and target. Nothing is written to disk.

A page answered with a non-2xx status is reported as a fetch error and no
links are printed, even if the error page itself contains links.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 {
			cfg.LinkLimit = limit
		}
		scrape.ListLinks(cmd.Context(), httputil.NewClient(cfg.HTTP), cfg, newPrinter(cmd))
		return nil
	},
}

func init() {
	linksCmd.Flags().Int("limit", 0, "number of links to print (default 5)")

	rootCmd.AddCommand(linksCmd)
}
