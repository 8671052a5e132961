package report

import (
	"io"
	"os"
)

// Console implements Reporter by writing lines to an io.Writer.
type Console struct {
	w io.Writer
}

// NewConsole creates a reporter writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// NewStdout creates a reporter writing to standard output.
func NewStdout() *Console {
	return NewConsole(os.Stdout)
}

// Report implements Reporter.Report.
func (c *Console) Report(readings []Reading) error {
	_, err := io.WriteString(c.w, Format(readings)+"\n")
	return err
}

// Release implements Reporter.Release.
func (c *Console) Release() error {
	return nil
}
