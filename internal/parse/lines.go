package parse

import (
	"strconv"
	"strings"

	"mlog/internal/event"
)

// Diagnostic is a non-fatal condition raised while scanning a line.
// Report reflects spec.md §7's FormatWarning taxonomy entry.
type Diagnostic struct {
	Line int
	Msg  string
}

func diag(line int, msg string) Diagnostic { return Diagnostic{Line: line, Msg: msg} }

// matchLine parses one already-trimmed log line (timestamp and leading
// whitespace stripped) into an Event, or reports why it didn't match.
//
// A SyncStart carries no repo name: per SPEC_FULL §12.1 syncs never overlap,
// so history.Index pairs it with the next SyncStop through a single
// system-wide pending flag, and the repo name is taken entirely from the
// stop line.
func matchLine(ts int64, s string, lineNo int) (event.Event, []Diagnostic, bool) {
	switch {
	case strings.HasPrefix(s, ">>> emer"):
		return matchMergeStart(ts, s, lineNo)
	case strings.HasPrefix(s, "::: comp"):
		return matchMergeStop(ts, s, lineNo)
	case strings.HasPrefix(s, "=== Unmerging..."):
		return matchUnmergeStart(ts, s, lineNo)
	case strings.HasPrefix(s, ">>> unmerge success"):
		return matchUnmergeStop(ts, s, lineNo)
	case strings.HasPrefix(s, ">>> Syncing"),
		strings.HasPrefix(s, ">>> Starting rsync"),
		strings.HasPrefix(s, ">>> starting rsync"):
		return event.Event{Kind: event.SyncStart, Ts: ts}, nil, true
	case strings.HasPrefix(s, "=== Sync completed"):
		return matchSyncStop(ts, s, lineNo)
	case strings.HasPrefix(s, "*** emerge "):
		return matchCommandStart(ts, s, lineNo)
	default:
		return event.Event{}, nil, false
	}
}

// fields splits s on ASCII whitespace, mirroring split_ascii_whitespace.
func fields(s string) []string { return strings.Fields(s) }

// iterTokens parses "(i" "of" "n)" tokens into (index, total), or zero values
// when absent/malformed.
func iterTokens(a, b, c string) (int, int, bool) {
	a = strings.TrimPrefix(a, "(")
	c = strings.TrimSuffix(c, ")")
	if b != "of" {
		return 0, 0, false
	}
	i, err1 := strconv.Atoi(a)
	n, err2 := strconv.Atoi(c)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return i, n, true
}

func matchMergeStart(ts int64, s string, lineNo int) (event.Event, []Diagnostic, bool) {
	toks := fields(s)
	if len(toks) < 6 {
		return event.Event{}, []Diagnostic{diag(lineNo, "truncated merge-start line")}, false
	}
	pkg, ok := ParseAtom(toks[5])
	if !ok {
		return event.Event{}, []Diagnostic{diag(lineNo, "unparsable package atom: "+toks[5])}, false
	}
	idx, total, _ := iterTokens(toks[2], toks[3], toks[4])
	return event.Event{
		Kind:      event.MergeStart,
		Ts:        ts,
		Pkg:       pkg,
		IterIndex: idx,
		IterTotal: total,
		Binary:    strings.Contains(s, "(binary)"),
	}, nil, true
}

func matchMergeStop(ts int64, s string, lineNo int) (event.Event, []Diagnostic, bool) {
	toks := fields(s)
	if len(toks) < 7 {
		return event.Event{}, []Diagnostic{diag(lineNo, "truncated merge-stop line")}, false
	}
	pkg, ok := ParseAtom(toks[6])
	if !ok {
		return event.Event{}, []Diagnostic{diag(lineNo, "unparsable package atom: "+toks[6])}, false
	}
	idx, total, _ := iterTokens(toks[3], toks[4], toks[5])
	return event.Event{Kind: event.MergeStop, Ts: ts, Pkg: pkg, IterIndex: idx, IterTotal: total}, nil, true
}

func matchUnmergeStart(ts int64, s string, lineNo int) (event.Event, []Diagnostic, bool) {
	toks := fields(s)
	if len(toks) < 3 {
		return event.Event{}, []Diagnostic{diag(lineNo, "truncated unmerge-start line")}, false
	}
	atom := strings.TrimSuffix(strings.TrimPrefix(toks[2], "("), ")")
	pkg, ok := ParseAtom(atom)
	if !ok {
		return event.Event{}, []Diagnostic{diag(lineNo, "unparsable package atom: "+atom)}, false
	}
	return event.Event{Kind: event.UnmergeStart, Ts: ts, Pkg: pkg}, nil, true
}

func matchUnmergeStop(ts int64, s string, lineNo int) (event.Event, []Diagnostic, bool) {
	toks := fields(s)
	if len(toks) < 4 {
		return event.Event{}, []Diagnostic{diag(lineNo, "truncated unmerge-stop line")}, false
	}
	pkg, ok := ParseAtom(toks[3])
	if !ok {
		return event.Event{}, []Diagnostic{diag(lineNo, "unparsable package atom: "+toks[3])}, false
	}
	return event.Event{Kind: event.UnmergeStop, Ts: ts, Pkg: pkg}, nil, true
}

// matchSyncStop extracts the repo name as whatever follows the last '/' or
// space on the line, mirroring old portage's "completed with <url>" and new
// portage's "completed for <name>".
func matchSyncStop(ts int64, s string, lineNo int) (event.Event, []Diagnostic, bool) {
	cut := strings.LastIndexAny(s, "/ ")
	if cut < 0 || cut == len(s)-1 {
		return event.Event{Kind: event.SyncStop, Ts: ts, Repo: "unknown"},
			[]Diagnostic{diag(lineNo, "can't find sync repo name")}, true
	}
	repo := strings.TrimSpace(s[cut+1:])
	if repo == "" {
		repo = "unknown"
	}
	return event.Event{Kind: event.SyncStop, Ts: ts, Repo: repo}, nil, true
}

func matchCommandStart(ts int64, s string, lineNo int) (event.Event, []Diagnostic, bool) {
	argv := fields(strings.TrimPrefix(s, "*** emerge "))
	return event.Event{Kind: event.CommandStart, Ts: ts, Argv: argv}, nil, true
}

// parseTimestamp parses a leading "<digits>: " prefix, returning the
// timestamp and the remainder with leading spaces stripped. ok is false for
// lines with no valid leading timestamp (malformed or truncated).
func parseTimestamp(line string) (ts int64, rest string, ok bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != ':' {
		return 0, "", false
	}
	n, err := strconv.ParseInt(line[:i], 10, 64)
	if err != nil {
		return 0, "", false
	}
	rest = line[i+1:]
	for len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}
	return n, rest, true
}
