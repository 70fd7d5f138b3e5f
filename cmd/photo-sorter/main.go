// photo-sorter files every file below an input directory into
// <output>/<YYYY>/<MM>/ using the photo's EXIF capture date, or the file's
// creation time when there is none.
//
// Usage:
//
//	photo-sorter ~/Pictures/card ~/Pictures/library
//	photo-sorter --dry-run ~/Pictures/card ~/Pictures/library
//	photo-sorter -v ~/Downloads ~/Sorted
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"photo-sorter/internal/config"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintln(os.Stderr)
			fmt.Fprint(os.Stderr, cmd.UsageString())
		}
		os.Exit(1)
	}
}

// printError renders err in red when w is a terminal, plain otherwise.
func printError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)
	fmt.Fprintln(w, style.Render(fmt.Sprintf("Error: %v", err)))
}
