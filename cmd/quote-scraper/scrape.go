package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/quote-scraper/internal/httputil"
	"github.com/pdiddy/quote-scraper/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape quotes into the CSV file (the default command)",
	Long: `Scrape fetches the quotes page, extracts quote text, author and tags from
every quote block, and overwrites the output CSV. Fetch, extraction and save
failures are printed and the command still exits normally.`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().Bool("verify", false, "re-read the CSV after saving and report its row count")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	verify, _ := cmd.Flags().GetBool("verify")
	p := newPrinter(cmd)

	p.Banner("QUOTE SCRAPER")
	scrape.Run(cmd.Context(), httputil.NewClient(cfg.HTTP), cfg, scrape.Options{Verify: verify}, p)
	p.Info("")
	p.Banner("Scraping Complete!")
	return nil
}
