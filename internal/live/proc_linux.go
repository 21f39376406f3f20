//go:build linux

package live

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// clkTck is USER_HZ, the kernel's clock-ticks-per-second constant exposed by
// sysconf(_SC_CLK_TCK). It is 100 on every architecture Linux actually ships
// (the kernel pins USER_HZ itself); probing it through cgo would cost a
// build constraint for no practical gain.
const clkTck = 100

// LinuxProcessLister reads /proc, mirroring original_source/src/parse/proces.rs's
// handling of /proc/<pid>/stat and /proc/uptime, and the raw-syscall style of
// environment/bsd's process enumeration.
type LinuxProcessLister struct{}

func NewProcessLister() ProcessLister { return LinuxProcessLister{} }

func (LinuxProcessLister) List() ([]Process, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}
	var out []Process
	var firstErr error
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || !e.IsDir() {
			continue
		}
		p, err := readProcessStat(pid)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue // process exited mid-scan; not fatal
		}
		out = append(out, p)
	}
	// A handful of races reading individual /proc/<pid> entries is normal
	// and not reported; only a wholesale failure above is fatal.
	return out, nil
}

func readProcessStat(pid int) (Process, error) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return Process{}, err
	}
	// comm is parenthesized and may contain spaces/parens; locate it by the
	// outermost matching parens rather than splitting on spaces naively.
	s := string(data)
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close < 0 || close < open {
		return Process{}, fmt.Errorf("pid %d: malformed stat", pid)
	}
	rest := strings.Fields(s[close+2:])
	// rest[0] is field 3 (state); ppid is field 4 -> rest[1]; starttime is
	// field 22 -> rest[19].
	if len(rest) < 20 {
		return Process{}, fmt.Errorf("pid %d: short stat", pid)
	}
	ppid, _ := strconv.Atoi(rest[1])
	start, _ := strconv.ParseInt(rest[19], 10, 64)

	cmdline, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "cmdline"))
	var argv []string
	if err == nil && len(cmdline) > 0 {
		for _, f := range strings.Split(strings.TrimRight(string(cmdline), "\x00"), "\x00") {
			argv = append(argv, f)
		}
	}
	return Process{Pid: pid, Ppid: ppid, Cmdline: argv, StartTicks: start}, nil
}

func (LinuxProcessLister) TimeRef() (ticksPerSec int64, bootUnix int64, err error) {
	ticksPerSec = clkTck
	f, err := os.Open("/proc/uptime")
	if err != nil {
		return ticksPerSec, 0, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return ticksPerSec, 0, fmt.Errorf("empty /proc/uptime")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) == 0 {
		return ticksPerSec, 0, fmt.Errorf("malformed /proc/uptime")
	}
	uptimeSec, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return ticksPerSec, 0, err
	}
	bootUnix = nowUnix() - int64(uptimeSec)
	return ticksPerSec, bootUnix, nil
}
