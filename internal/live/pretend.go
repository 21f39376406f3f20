package live

import (
	"bufio"
	"io"
	"regexp"

	"mlog/internal/parse"
)

// pretendLine matches one line of `emerge --pretend` output, e.g.
// "[ebuild   R   ] app-editors/vim-9.0.1" or "[binary N] sys-apps/foo-1.0".
// The bracketed word is the source tag (SPEC_FULL §12.3). The atom group is
// bounded to the same charset as the original's `get_pretend` regex
// (original_source/src/parse/current.rs) so a trailing "::repo" annotation
// on --pretend output with repository tags isn't pulled into the version.
var pretendLine = regexp.MustCompile(`^\[(ebuild|binary)[^\]]*\]\s+(.+?-[0-9][0-9a-z._-]*)`)

// ParsePretend reads an --pretend transcript from r and returns one
// InFlight per recognized line, in the order the driver would build them.
func ParsePretend(r io.Reader) []InFlight {
	var out []InFlight
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		m := pretendLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		key, ok := parse.ParseAtom(m[2])
		if !ok {
			continue
		}
		out = append(out, InFlight{
			Pkg:    key,
			Binary: m[1] == "binary",
			Source: SourcePretend,
		})
	}
	return out
}
