package cmd

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if *rawFlag {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		slog.Warn("cannot render markdown", "error", err)
		out = md
	}
	fmt.Fprint(stdout, out)
}
