package filter

import "strings"

// Show is the parsed form of a command's --show option: a set of single
// letter toggles, 'a' meaning "all". Which letters are valid depends on the
// command (spec.md §6 table); ParseShow is handed the valid set explicitly.
type Show struct {
	Pkg     bool // 'p': per-package rows
	Tot     bool // 't': totals row
	Sync    bool // 's': sync rows
	Merge   bool // 'm': merge rows
	Unmerge bool // 'u': unmerge rows
	Emerge  bool // 'e': active/queued emerge rows (predict)
}

// ParseShow validates show against valid (a string of the letters the
// calling command accepts) and sets the corresponding fields, plus Pkg/Tot/
// etc. for 'a'.
func ParseShow(show, valid string) (Show, bool) {
	for _, c := range show {
		if !strings.ContainsRune(valid, c) {
			return Show{}, false
		}
	}
	has := func(c rune) bool { return strings.ContainsRune(show, c) || strings.ContainsRune(show, 'a') }
	return Show{
		Pkg:     has('p'),
		Tot:     has('t'),
		Sync:    has('s'),
		Merge:   has('m'),
		Unmerge: has('u'),
		Emerge:  has('e'),
	}, true
}
