// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CSVHeader is the fixed header row of the output file, in column order.
var CSVHeader = []string{"quote", "author", "tags"}

// TagSeparator joins the tags of one record into a single field.
const TagSeparator = ", "

// Record is one quote scraped from the page.
// A record has no identity beyond its position in the output.
type Record struct {
	// Quote is the quote text, or the text fallback when the element is missing.
	Quote string `json:"quote" yaml:"quote"`

	// Author is the author name, or the author fallback when the element is missing.
	Author string `json:"author" yaml:"author"`

	// Tags holds the tag texts joined with TagSeparator, or "" when there are none.
	Tags string `json:"tags" yaml:"tags"`
}

// Row returns the record's fields in CSVHeader order.
func (r Record) Row() []string {
	return []string{r.Quote, r.Author, r.Tags}
}

// Link is a hyperlink found on the page.
type Link struct {
	Text string `json:"text" yaml:"text"`
	Href string `json:"href" yaml:"href"`
}
