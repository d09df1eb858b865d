package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter referencing stdio. With nil arguments it
// is only enabled when stdin is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := true
	if in == nil {
		in = os.Stdin
		interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Enabled indicates the prompter can ask questions.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Confirm asks a yes/no question defaulting to no.
func (p *Prompter) Confirm(question string) (bool, error) {
	if !p.interactive {
		return false, nil
	}
	return helpers.PromptForConfirmation(p.out, p.in, question), nil
}

// Reader exposes the buffered input for follow-up questions.
func (p *Prompter) Reader() *bufio.Reader {
	return p.in
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
