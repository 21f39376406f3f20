package live

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mlog/internal/event"
)

// ansiEscape matches terminal color/cursor escape sequences, which portage
// build logs are saturated with (SPEC_FULL §12.5).
var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string { return ansiEscape.ReplaceAllString(s, "") }

// phaseLine matches portage's own phase-transition markers, e.g.
// ">>> Compiling source in ...", "* Preparing source ...".
var phaseLine = regexp.MustCompile(`(?i)\b(fetch|unpack|prepar|configur|compil|test|install|preinst|postinst|qmerge|clean|packag)\w*`)

// BuildLogTail reads the last portion of a sandboxed package's build.log and
// returns the most recent recognizable phase word, falling back to the
// empty string if none matched. This is strictly supplementary detail: the
// process-table scan already produced a phase token for this package. A
// missing or unreadable log is reported through err.
func BuildLogTail(path string, maxBytes int64) (phase string, lastLine string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", "", err
	}
	size := info.Size()
	start := int64(0)
	if size > maxBytes {
		start = size - maxBytes
	}
	buf := make([]byte, size-start)
	if _, err := f.ReadAt(buf, start); err != nil {
		return "", "", err
	}
	clean := StripANSI(string(buf))
	lines := strings.Split(strings.TrimRight(clean, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if lastLine == "" {
			lastLine = line
		}
		if m := phaseLine.FindString(line); m != "" && phase == "" {
			phase = strings.ToLower(m)
		}
		if phase != "" {
			break
		}
	}
	return phase, lastLine, nil
}

// FindBuildLog searches tmpdirs (the --tmpdir list, most-recently-added
// first) for a sandboxed package's build.log under the conventional
// PORTAGE_TMPDIR layout, $TMPDIR/portage/<category>/<name>-<version>/temp/
// build.log. Unlike the original tool's /proc/<pid>/fd scan for an open
// build.log handle, this simply tries the well-known path per candidate
// tmpdir — simpler and sufficient since the process-table scan already
// supplies the package key (SPEC_FULL §12.5).
func FindBuildLog(tmpdirs []string, key event.Key) string {
	pf := key.Name
	if key.Version != "" {
		pf = key.Name + "-" + key.Version
	}
	for _, dir := range tmpdirs {
		path := filepath.Join(dir, "portage", key.Category, pf, "temp", "build.log")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
