package report

// Noop implements Reporter but does nothing.
// Used when no output is configured.
type Noop struct{}

// Report implements Reporter.Report.
func (n *Noop) Report(readings []Reading) error { return nil }

// Release implements Reporter.Release.
func (n *Noop) Release() error {
	return nil
}
