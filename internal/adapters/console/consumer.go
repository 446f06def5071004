// Package console renders tool output chronologically and counts the
// diagnostics that scroll past.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/ui/output"
	"go.trai.ch/mason/internal/ui/style"
)

var _ ports.DiagnosticConsumer = (*Consumer)(nil)

// Consumer implements ports.DiagnosticConsumer. Regular output goes to
// stdout, the tool's stderr to stderr, both under an operation prefix.
// Warning and error lines are colored and tallied.
type Consumer struct {
	stdout *termenv.Output
	stderr *termenv.Output
	prefix string

	mu     sync.Mutex
	counts ports.DiagnosticCounts
}

// NewConsumer creates a consumer with the given prefix, e.g. "configure" or
// "build". Nil writers default to the process streams.
func NewConsumer(stdout, stderr io.Writer, prefix string) *Consumer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Consumer{
		stdout: output.NewWithProfile(stdout, output.ColorProfileANSI),
		stderr: output.NewWithProfile(stderr, output.ColorProfileANSI),
		prefix: prefix,
	}
}

// Output handles one line of the tool's stdout.
func (c *Consumer) Output(line string) {
	c.write(c.stdout, line)
}

// Error handles one line of the tool's stderr.
func (c *Consumer) Error(line string) {
	c.write(c.stderr, line)
}

// Counts returns the diagnostics tallied so far.
func (c *Consumer) Counts() ports.DiagnosticCounts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}

func (c *Consumer) write(out *termenv.Output, line string) {
	severity := Classify(line)

	c.mu.Lock()
	switch severity {
	case SeverityError:
		c.counts.Errors++
	case SeverityWarning:
		c.counts.Warnings++
	}
	c.mu.Unlock()

	styled := out.String(line)
	switch severity {
	case SeverityError:
		styled = styled.Foreground(termenv.RGBColor(string(style.Red)))
	case SeverityWarning:
		styled = styled.Foreground(termenv.RGBColor(string(style.Yellow)))
	}

	if c.prefix != "" {
		faint := out.String(fmt.Sprintf("[%s]", c.prefix)).Faint()
		_, _ = out.WriteString(faint.String() + " " + styled.String() + "\n")
		return
	}
	_, _ = out.WriteString(styled.String() + "\n")
}
