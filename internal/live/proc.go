package live

import (
	"fmt"
	"strings"
)

// Process is one row of the process table, as read from /proc (SPEC_FULL
// §12.6, grounded on original_source/src/parse/proces.rs's Proc struct).
type Process struct {
	Pid     int
	Ppid    int
	Cmdline []string
	// StartTicks is the process start time in clock ticks since boot, as
	// reported by /proc/<pid>/stat field 22. Converting it to a Unix
	// timestamp requires the sysconf CLK_TCK value and /proc/uptime,
	// which TimeRef below resolves once per discovery pass.
	StartTicks int64
}

// ProcessLister enumerates the current process table. Implementations live
// per-platform; tests use MockProcessLister.
type ProcessLister interface {
	List() ([]Process, error)
	// TimeRef returns (clockTicksPerSec, bootUnixTime) so StartTicks can be
	// converted to a Unix timestamp: bootUnixTime + ticks/clockTicksPerSec.
	TimeRef() (ticksPerSec int64, bootUnix int64, err error)
}

// StartUnix converts p's StartTicks to a Unix timestamp using lister's time
// reference.
func StartUnix(p Process, ticksPerSec, bootUnix int64) int64 {
	if ticksPerSec <= 0 {
		return 0
	}
	return bootUnix + p.StartTicks/ticksPerSec
}

// defaultProcWidth matches the original's default Display precision.
const defaultProcWidth = 45

// String renders p as "Pid <n>: <cmdline>", truncated to defaultProcWidth.
func (p Process) String() string {
	return p.Display(defaultProcWidth)
}

// Display renders p as "Pid <n>: <cmdline>", ellipsis-truncating the
// command line so the whole string fits width (ported from
// original_source/src/parse/proces.rs's Proc Display impl; width <= 0
// means unlimited). The "Pid <n>: " prefix is never cut and a command line
// shorter than 4 bytes is never truncated, so the result can exceed width.
func (p Process) Display(width int) string {
	prefix := fmt.Sprintf("Pid %d: ", p.Pid)
	cmdline := strings.Join(p.Cmdline, " ")
	if width <= 0 {
		return prefix + cmdline
	}
	capacity := width - len(prefix)
	if capacity < 0 {
		capacity = 0
	}
	cmdlen := len(cmdline)
	switch {
	case capacity >= cmdlen || cmdlen < 4:
		return prefix + cmdline
	case capacity > 3:
		return prefix + "..." + cmdline[cmdlen-capacity+3:]
	default:
		return prefix + "..."
	}
}
