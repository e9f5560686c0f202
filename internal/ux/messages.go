package ux

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/painel/internal/errors"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Success prints a check-marked message
func Success(w io.Writer, noColor bool, format string, args ...any) {
	msg := "✓ " + fmt.Sprintf(format, args...)
	if !noColor {
		msg = successStyle.Render(msg)
	}
	fmt.Fprintln(w, msg)
}

// PrintError writes err for the terminal. Coded errors show their
// suggestions; the cause is only shown when verbose.
func PrintError(w io.Writer, err error, verbose, noColor bool) {
	if err == nil {
		return
	}

	var coded *errors.Error
	if !stderrors.As(err, &coded) {
		fmt.Fprintln(w, style(errorStyle, noColor, "Error: "+err.Error()))
		return
	}

	if verbose {
		fmt.Fprintln(w, style(errorStyle, noColor, "Error: "+coded.Detail()))
		return
	}

	fmt.Fprintln(w, style(errorStyle, noColor, "Error: "+err.Error()))
	for _, s := range coded.Suggestions {
		fmt.Fprintln(w, style(hintStyle, noColor, "  → "+s))
	}
}

func style(s lipgloss.Style, noColor bool, text string) string {
	if noColor {
		return text
	}
	return s.Render(text)
}
