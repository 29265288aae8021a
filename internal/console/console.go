// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console prints the human-readable status lines of a run.
// The lines are for a person watching the terminal, not for parsing.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Printer writes status lines to W. Prefixes are colorized when Color is set.
type Printer struct {
	W     io.Writer
	Color bool
}

// New returns a Printer writing to w.
func New(w io.Writer, color bool) *Printer {
	return &Printer{W: w, Color: color}
}

func (p *Printer) paint(c text.Colors, s string) string {
	if !p.Color {
		return s
	}
	return c.Sprint(s)
}

// Info prints a plain status line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.W, format+"\n", args...)
}

// Success prints a line marking a completed stage.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.W, "%s %s\n", p.paint(text.Colors{text.FgGreen, text.Bold}, "ok:"), fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.W, "%s %s\n", p.paint(text.Colors{text.FgYellow}, "warning:"), fmt.Sprintf(format, args...))
}

// Error prints err after a prefix naming what failed, e.g.
// "error fetching the website:".
func (p *Printer) Error(prefix string, err error) {
	fmt.Fprintf(p.W, "%s %v\n", p.paint(text.Colors{text.FgRed, text.Bold}, prefix+":"), err)
}

// Banner prints title between two rules.
func (p *Printer) Banner(title string) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(p.W, rule)
	fmt.Fprintln(p.W, p.paint(text.Colors{text.Bold}, title))
	fmt.Fprintln(p.W, rule)
}
