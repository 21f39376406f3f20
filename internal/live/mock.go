package live

// MockProcessLister is a test double for ProcessLister, mirroring the
// record-and-replay style of environment/mock.go.
type MockProcessLister struct {
	Processes   []Process
	ListErr     error
	TicksPerSec int64
	BootUnix    int64
	TimeRefErr  error
}

func (m *MockProcessLister) List() ([]Process, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Processes, nil
}

func (m *MockProcessLister) TimeRef() (int64, int64, error) {
	if m.TimeRefErr != nil {
		return 0, 0, m.TimeRefErr
	}
	ticks := m.TicksPerSec
	if ticks == 0 {
		ticks = 100
	}
	return ticks, m.BootUnix, nil
}
