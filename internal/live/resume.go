package live

import (
	"encoding/json"
	"fmt"
	"os"

	"mlog/internal/parse"
)

// mtimedb is the portage resume-state JSON shape (SPEC_FULL §12.4, ported
// from original_source/src/parse/current.rs's get_resume): a "resume" object
// holding a "mergelist" of [category, action, cpv, repo] tuples. Only the
// cpv field (index 2) is used.
type mtimedb struct {
	Resume *struct {
		Mergelist [][]json.RawMessage `json:"mergelist"`
	} `json:"resume"`
}

// ReadResume parses a resume-state file at path, returning one InFlight per
// mergelist entry whose cpv parses as a package atom. A missing file is not
// an error: it means nothing is queued, not that discovery failed.
func ReadResume(path string, source Source) ([]InFlight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read resume file %s: %w", path, err)
	}
	var db mtimedb
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse resume file %s: %w", path, err)
	}
	if db.Resume == nil {
		return nil, nil
	}
	var out []InFlight
	for _, entry := range db.Resume.Mergelist {
		if len(entry) < 3 {
			continue
		}
		var cpv string
		if err := json.Unmarshal(entry[2], &cpv); err != nil {
			continue
		}
		key, ok := parse.ParseAtom(cpv)
		if !ok {
			continue
		}
		out = append(out, InFlight{Pkg: key, Source: source})
	}
	return out, nil
}

// ResolveResume applies the --resume policy (spec.md §4.5 step 3), reading
// main and/or backup mtimedb paths as the kind dictates. driverRunning is
// the process-table signal ResumeAuto decides against: the caller must
// already know whether a driver process exists before calling this (see
// Discover, which resolves driverRunning from the same process scan and
// calls this after).
func ResolveResume(kind ResumeKind, mainPath, backupPath string, driverRunning bool) ([]InFlight, error) {
	switch kind {
	case ResumeNo:
		return nil, nil
	case ResumeMain:
		return ReadResume(mainPath, SourceResumeMain)
	case ResumeBackup:
		return ReadResume(backupPath, SourceResumeBackup)
	case ResumeEither:
		if got, err := ReadResume(mainPath, SourceResumeMain); err == nil && len(got) > 0 {
			return got, nil
		}
		return ReadResume(backupPath, SourceResumeBackup)
	default: // ResumeAuto: main list while a driver is running, nothing otherwise
		if !driverRunning {
			return nil, nil
		}
		return ReadResume(mainPath, SourceResumeMain)
	}
}
