// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default values for a run. With no config file and no environment overrides the
// scraper uses exactly these.
const (
	DefaultURL        = "http://quotes.toscrape.com/"
	DefaultTimeout    = 10 * time.Second
	DefaultOutputPath = "scraped_data.csv"
	DefaultLinkLimit  = 5

	// FallbackMissing substitutes a missing quote text or author element.
	FallbackMissing = "N/A"
	// FallbackNoText labels a link whose visible text is empty.
	FallbackNoText = "No text"
)

// HTTPConfig holds the settings for the single page fetch.
type HTTPConfig struct {
	// URL is the page to fetch.
	URL string `json:"url" yaml:"url" mapstructure:"url" validate:"required,url"`

	// Timeout bounds the whole request, connect through body read.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// MarshalYAML writes Timeout as a duration string ("10s") so the output can
// be read back as a config file.
func (c HTTPConfig) MarshalYAML() (any, error) {
	return struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	}{c.URL, c.Timeout.String()}, nil
}

// Selectors are the CSS selectors used to locate records and links.
// Field selectors are evaluated inside each container.
type Selectors struct {
	Container string `json:"container" yaml:"container" mapstructure:"container" validate:"required"`
	Text      string `json:"text" yaml:"text" mapstructure:"text" validate:"required"`
	Author    string `json:"author" yaml:"author" mapstructure:"author" validate:"required"`
	Tag       string `json:"tag" yaml:"tag" mapstructure:"tag" validate:"required"`
	Link      string `json:"link" yaml:"link" mapstructure:"link" validate:"required"`
}

// Fallbacks are the values substituted for absent elements.
//
// Missing tags always yield the empty string; that case has no knob.
type Fallbacks struct {
	Text   string `json:"text" yaml:"text" mapstructure:"text" validate:"required"`
	Author string `json:"author" yaml:"author" mapstructure:"author" validate:"required"`
	Href   string `json:"href" yaml:"href" mapstructure:"href" validate:"required"`
	NoText string `json:"no_text" yaml:"no_text" mapstructure:"no_text" validate:"required"`
}

// Config groups everything a scrape or link listing run needs.
type Config struct {
	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`

	// OutputPath is the CSV file overwritten by each scrape run.
	OutputPath string `json:"output_path" yaml:"output_path" mapstructure:"output_path" validate:"required"`

	// LinkLimit is how many links the link lister prints at most.
	LinkLimit int `json:"link_limit" yaml:"link_limit" mapstructure:"link_limit" validate:"min=1"`

	Selectors Selectors `json:"selectors" yaml:"selectors" mapstructure:"selectors"`
	Fallbacks Fallbacks `json:"fallbacks" yaml:"fallbacks" mapstructure:"fallbacks"`
}

// DefaultConfig returns the fixed configuration of the tool.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			URL:     DefaultURL,
			Timeout: DefaultTimeout,
		},
		OutputPath: DefaultOutputPath,
		LinkLimit:  DefaultLinkLimit,
		Selectors: Selectors{
			Container: "div.quote",
			Text:      "span.text",
			Author:    "small.author",
			Tag:       "a.tag",
			Link:      "a",
		},
		Fallbacks: Fallbacks{
			Text:   FallbackMissing,
			Author: FallbackMissing,
			Href:   FallbackMissing,
			NoText: FallbackNoText,
		},
	}
}

var validate = newValidator()

// newValidator reports fields by their yaml key, the name users write in a
// config file.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration and reports every invalid field at once.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath turns "Config.http.url" into "http.url".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}
