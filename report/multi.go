package report

import "errors"

// Multi combines multiple Reporter implementations.
type Multi struct {
	reporters []Reporter
}

// Report implements Reporter.Report.
func (m *Multi) Report(readings []Reading) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Report(readings); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Release implements Reporter.Release.
func (m *Multi) Release() error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
