// Package ui styles the CLI's terminal output.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Printer writes styled status lines. The zero writer means stdout.
type Printer struct {
	Out io.Writer
}

func (p Printer) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p Printer) Header(title string) {
	fmt.Fprintln(p.out(), headerStyle.Render(title))
}

func (p Printer) Pass(format string, v ...any) {
	fmt.Fprintf(p.out(), "%s %s\n", passStyle.Render("✓"), fmt.Sprintf(format, v...))
}

func (p Printer) Warn(format string, v ...any) {
	fmt.Fprintf(p.out(), "%s %s\n", warnStyle.Render("!"), fmt.Sprintf(format, v...))
}

func (p Printer) Fail(format string, v ...any) {
	fmt.Fprintf(p.out(), "%s %s\n", failStyle.Render("✗"), fmt.Sprintf(format, v...))
}

func (p Printer) Info(format string, v ...any) {
	fmt.Fprintf(p.out(), "  %s\n", fmt.Sprintf(format, v...))
}

func (p Printer) Dim(format string, v ...any) {
	fmt.Fprintf(p.out(), "  %s\n", dimStyle.Render(fmt.Sprintf(format, v...)))
}
