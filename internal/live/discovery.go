package live

import (
	"path/filepath"
	"strings"

	"mlog/internal/event"
	"mlog/internal/parse"
)

// phases lists the build-phase tokens a sandboxed child's command line may
// expose (spec.md §4.5 step 2).
var phases = []string{
	"fetch", "unpack", "prepare", "configure", "compile", "test",
	"install", "preinst", "postinst", "qmerge", "instprep", "clean", "package",
}

// driverNames is the set of basenames treated as build-driver processes.
var driverNames = map[string]bool{"emerge": true}

// Discover walks the process table via lister, then overlays resume-state
// and --pretend entries per spec.md §4.5. pretend may be nil to skip that
// source. resumeKind/mainPath/backupPath drive the resume lookup, applied
// after the process scan so ResumeAuto can see whether a driver is running
// (spec.md §4.5 step 3) — it cannot be resolved before this scan runs.
func Discover(lister ProcessLister, resumeKind ResumeKind, mainPath, backupPath string, pretend []InFlight) Result {
	procs, err := lister.List()
	res := Result{}
	if err != nil {
		res.Incomplete = true
		res.Reason = err.Error()
	}
	ticksPerSec, bootUnix, terr := lister.TimeRef()
	if terr != nil && err == nil {
		res.Incomplete = true
		res.Reason = terr.Error()
	}

	byPid := make(map[int]Process, len(procs))
	for _, p := range procs {
		byPid[p.Pid] = p
	}
	drivers := make(map[int]bool)
	for _, p := range procs {
		if len(p.Cmdline) > 0 && driverNames[filepath.Base(p.Cmdline[0])] {
			drivers[p.Pid] = true
			if res.Driver == nil {
				driver := p
				res.Driver = &driver
			}
		}
	}
	res.DriverRunning = len(drivers) > 0

	for _, p := range procs {
		if drivers[p.Pid] {
			continue
		}
		if !descendsFromDriver(p, byPid, drivers) {
			continue
		}
		key, phase, ok := matchSandboxed(p.Cmdline)
		if !ok {
			continue
		}
		res.InFlight = append(res.InFlight, InFlight{
			Pkg:       key,
			StartedAt: StartUnix(p, ticksPerSec, bootUnix),
			Phase:     phase,
			Source:    SourceProcess,
		})
	}

	resumeItems, rerr := ResolveResume(resumeKind, mainPath, backupPath, res.DriverRunning)
	res.ResumeErr = rerr
	res.InFlight = append(res.InFlight, resumeItems...)
	res.InFlight = append(res.InFlight, pretend...)
	return res
}

func descendsFromDriver(p Process, byPid map[int]Process, drivers map[int]bool) bool {
	seen := map[int]bool{}
	for cur := p.Ppid; cur > 1 && !seen[cur]; cur = byPid[cur].Ppid {
		if drivers[cur] {
			return true
		}
		seen[cur] = true
		if _, ok := byPid[cur]; !ok {
			return false
		}
	}
	return false
}

// matchSandboxed scans a process's argv for a parseable package atom and a
// known phase token.
func matchSandboxed(argv []string) (key event.Key, phase string, ok bool) {
	var haveKey bool
	for _, f := range argv {
		if k, matched := parse.ParseAtom(strings.Trim(f, "\"")); matched {
			key, haveKey = k, true
		}
		for _, ph := range phases {
			if f == ph {
				phase = ph
			}
		}
	}
	if !haveKey || phase == "" {
		return event.Key{}, "", false
	}
	return key, phase, true
}
