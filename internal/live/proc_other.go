//go:build !linux

package live

import "fmt"

// unsupportedProcessLister is used on platforms without a /proc filesystem.
// Discover still runs against the resume file and --pretend input; only the
// process-table step is skipped, with Result.Incomplete set.
type unsupportedProcessLister struct{}

func NewProcessLister() ProcessLister { return unsupportedProcessLister{} }

func (unsupportedProcessLister) List() ([]Process, error) {
	return nil, fmt.Errorf("process-table discovery is not supported on this platform")
}

func (unsupportedProcessLister) TimeRef() (int64, int64, error) {
	return 0, 0, fmt.Errorf("process-table discovery is not supported on this platform")
}
