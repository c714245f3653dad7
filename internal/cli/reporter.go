package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter writes tagged diagnostics, one per line.
type Reporter struct {
	writer io.Writer
	info   *color.Color
	warn   *color.Color
	fail   *color.Color
}

func NewReporter(writer io.Writer) *Reporter {
	return &Reporter{
		writer: writer,
		info:   color.New(color.FgCyan),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed, color.Bold),
	}
}

func (r *Reporter) Info(format string, args ...any) {
	r.print(r.info, "INFO", format, args...)
}

func (r *Reporter) Warn(format string, args ...any) {
	r.print(r.warn, "WARN", format, args...)
}

func (r *Reporter) Fail(format string, args ...any) {
	r.print(r.fail, "FAIL", format, args...)
}

func (r *Reporter) print(c *color.Color, tag string, format string, args ...any) {
	// Diagnostics are best effort; a broken stderr has nowhere else to go.
	_, _ = fmt.Fprintf(r.writer, "%s %s\n", c.Sprintf("[%s]", tag), fmt.Sprintf(format, args...))
}
