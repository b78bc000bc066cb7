package shell

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/smileynet/contactbook/internal/config"
)

// Styles colors the shell's status lines. Styling never changes the text.
type Styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Hint    lipgloss.Style
}

// NewStyles builds Styles for w. Color mode is one of the config.Color*
// constants; "auto" colors only when w is a terminal.
func NewStyles(w io.Writer, mode string) Styles {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	default:
		if !isTTY(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}

	// Tabs in user-supplied paths are echoed as typed.
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)

	return Styles{
		Title:   base.Bold(true),
		Heading: base.Bold(true),
		Success: base.Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"}),
		Failure: base.Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"}),
		Hint:    base.Foreground(lipgloss.AdaptiveColor{Light: "3", Dark: "11"}),
	}
}

// PlainStyles returns Styles that render text unchanged.
func PlainStyles() Styles {
	return NewStyles(io.Discard, config.ColorNever)
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
