package logger

import (
	"io"
	"log"
	"os"
)

// StdLogger is a lightweight implementation backed by Go's log package.
type StdLogger struct {
	verbose bool
	out     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter creates a StdLogger writing to w.
func NewWithWriter(w io.Writer, verbose bool) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		out:     log.New(w, "enhancer ", log.LstdFlags),
	}
}

// Nop returns a logger that discards everything.
func Nop() *StdLogger {
	return NewWithWriter(io.Discard, false)
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[INFO]", msg, fields)
}

// Warn is always emitted: it reports absorbed storage failures.
func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.out.Println("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[ERROR]", msg, err, fields)
}
