package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/doeshing/prompt-enhancer/internal/domain"
)

const markdownWrap = 100

// IsTerminal reports whether stream (stdin, stdout or stderr) is an
// interactive terminal.
func IsTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes status lines and enhanced prompts. Colour and markdown
// rendering are only used on a terminal.
type Printer struct {
	out    io.Writer
	styled bool

	ok   *color.Color
	warn *color.Color
	bad  *color.Color
	dim  *color.Color
}

// NewPrinter builds a printer for out.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{
		out:    out,
		styled: IsTerminal(out) && !color.NoColor,
		ok:     color.New(color.FgGreen, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
		dim:    color.New(color.Faint),
	}
	if !p.styled {
		for _, c := range []*color.Color{p.ok, p.warn, p.bad, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

// Success prints a green status line.
func (p *Printer) Success(format string, args ...interface{}) {
	p.ok.Fprint(p.out, "[OK] ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warning prints a yellow status line.
func (p *Printer) Warning(format string, args ...interface{}) {
	p.warn.Fprint(p.out, "[WARN] ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Failure prints a red status line.
func (p *Printer) Failure(format string, args ...interface{}) {
	p.bad.Fprint(p.out, "[ERROR] ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Muted prints a faint line.
func (p *Printer) Muted(format string, args ...interface{}) {
	p.dim.Fprintf(p.out, format+"\n", args...)
}

// Markdown renders text through glamour on a terminal and prints it verbatim
// otherwise. raw forces verbatim output.
func (p *Printer) Markdown(text string, raw bool) {
	if raw || !p.styled {
		fmt.Fprintln(p.out, text)
		return
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		fmt.Fprintln(p.out, text)
		return
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		fmt.Fprintln(p.out, text)
		return
	}
	fmt.Fprint(p.out, rendered)
}

// Health prints a doctor report, one line per check.
func (p *Printer) Health(report domain.HealthReport) {
	for _, check := range report.Checks {
		label := fmt.Sprintf("[%s]", strings.ToUpper(string(check.Status)))
		switch check.Status {
		case domain.HealthOK:
			p.ok.Fprint(p.out, label)
		case domain.HealthWarn:
			p.warn.Fprint(p.out, label)
		default:
			p.bad.Fprint(p.out, label)
		}
		fmt.Fprintf(p.out, " %s - %s\n", check.Name, check.Details)
	}
}
