// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the quote-scraper CLI.
// Running it with no subcommand scrapes the quotes page into a CSV file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quote-scraper/internal/console"
	"github.com/pdiddy/quote-scraper/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the effective configuration, loaded before any command runs.
var cfg types.Config

// rootCmd is the base command. On its own it runs the quote scrape.
var rootCmd = &cobra.Command{
	Use:   "quote-scraper",
	Short: "Scrape quotes from quotes.toscrape.com into a CSV file",
	Long: `quote-scraper fetches http://quotes.toscrape.com/, extracts every quote
with its author and tags, and writes them to scraped_data.csv.

Run without arguments for the default scrape. The links subcommand prints the
first few hyperlinks of the same page instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded

		debug, _ := cmd.Flags().GetBool("debug")
		logger := newLogger(os.Stderr, debug)
		cmd.SetContext(logger.WithContext(cmd.Context()))
		return nil
	},
	RunE: runScrape,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./quote-scraper.yaml or ~/.config/quote-scraper/config.yaml)")
	flags.Bool("debug", false, "log diagnostics to stderr")
	flags.Bool("no-color", false, "disable colored status prefixes")
	flags.String("url", "", "page to scrape (default "+types.DefaultURL+")")
	flags.String("output", "", "CSV output path (default "+types.DefaultOutputPath+")")
	flags.Duration("timeout", 0, "HTTP request timeout (default 10s)")

	if err := bindFlags(viper.GetViper(), rootCmd); err != nil {
		panic(err)
	}

	rootCmd.Flags().Bool("verify", false, "re-read the CSV after saving and report its row count")
}

// bindFlags ties the override flags of cmd to their config keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, b := range []struct{ key, flag string }{
		{"http.url", "url"},
		{"output_path", "output"},
		{"http.timeout", "timeout"},
	} {
		f := cmd.PersistentFlags().Lookup(b.flag)
		if f == nil {
			return fmt.Errorf("binding %s: no --%s flag", b.key, b.flag)
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("binding %s to --%s: %w", b.key, b.flag, err)
		}
	}
	return nil
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("quote-scraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "quote-scraper"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment overrides and
// Unmarshal see them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("http.url", d.HTTP.URL)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("output_path", d.OutputPath)
	v.SetDefault("link_limit", d.LinkLimit)
	v.SetDefault("selectors.container", d.Selectors.Container)
	v.SetDefault("selectors.text", d.Selectors.Text)
	v.SetDefault("selectors.author", d.Selectors.Author)
	v.SetDefault("selectors.tag", d.Selectors.Tag)
	v.SetDefault("selectors.link", d.Selectors.Link)
	v.SetDefault("fallbacks.text", d.Fallbacks.Text)
	v.SetDefault("fallbacks.author", d.Fallbacks.Author)
	v.SetDefault("fallbacks.href", d.Fallbacks.Href)
	v.SetDefault("fallbacks.no_text", d.Fallbacks.NoText)
}

// loadConfig layers defaults, the config file and QUOTE_SCRAPER_* environment
// variables, then validates the result.
func loadConfig(v *viper.Viper) (types.Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("QUOTE_SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return types.Config{}, err
	}
	return c, nil
}

// newLogger returns the diagnostic logger. It stays quiet below warn level
// unless debug is set. Every line carries the run id.
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}

// newPrinter returns the status printer for stdout.
func newPrinter(cmd *cobra.Command) *console.Printer {
	noColor, _ := cmd.Flags().GetBool("no-color")
	color := !noColor && os.Getenv("NO_COLOR") == ""
	return console.New(cmd.OutOrStdout(), color)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
