// Package live implements discovery of packages currently being built or
// queued (spec.md §4.5): the process table, the package manager's resume
// state, and the pending --pretend list.
package live

import "mlog/internal/event"

// Source identifies where an InFlight entry came from.
type Source int

const (
	SourceProcess Source = iota
	SourceResumeMain
	SourceResumeBackup
	SourcePretend
)

func (s Source) String() string {
	switch s {
	case SourceProcess:
		return "process"
	case SourceResumeMain:
		return "resume-main"
	case SourceResumeBackup:
		return "resume-backup"
	case SourcePretend:
		return "pretend"
	default:
		return "unknown"
	}
}

// InFlight is one package currently building or queued behind the current
// build (spec.md §3).
type InFlight struct {
	Pkg       event.Key
	StartedAt int64 // 0 if unknown (queued, not yet started)
	Phase     string
	Binary    bool
	Source    Source
}

// ResumeKind selects which resume list(s) discovery consults (spec.md §4.5
// step 3).
type ResumeKind int

const (
	ResumeAuto ResumeKind = iota
	ResumeMain
	ResumeBackup
	ResumeEither
	ResumeNo
)

// ParseResumeKind accepts the CLI's --resume values.
func ParseResumeKind(s string) (ResumeKind, bool) {
	switch s {
	case "auto":
		return ResumeAuto, true
	case "main":
		return ResumeMain, true
	case "backup":
		return ResumeBackup, true
	case "either":
		return ResumeEither, true
	case "no":
		return ResumeNo, true
	default:
		return 0, false
	}
}

// Result is the output of Discover: the InFlight list plus an incomplete
// flag set when the process listing could not be read in full (spec.md §4.5
// Failure semantics / §7 LiveDiscoveryIncomplete).
type Result struct {
	InFlight   []InFlight
	Incomplete bool
	Reason     string

	// DriverRunning reports whether a build-driver process was found in the
	// process table this scan, the signal --resume auto resolves against
	// (spec.md §4.5 step 3).
	DriverRunning bool
	// Driver is the first build-driver process found, if DriverRunning.
	Driver *Process
	// ResumeErr carries a non-fatal error from reading the resume file, if
	// any; discovery still proceeds without it.
	ResumeErr error
}
