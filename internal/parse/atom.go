package parse

import (
	"strings"

	"mlog/internal/event"
)

// findVersionPos returns the index of the first byte of the version suffix
// in s, i.e. the split point of "category/name-version" at the last hyphen
// whose right-hand side begins with a decimal digit. Names containing
// hyphens are preserved by scanning right to left and only accepting a
// hyphen that is both non-leading and followed by a digit.
func findVersionPos(s string) (int, bool) {
	for pos := strings.LastIndexByte(s, '-'); pos > 0; pos = strings.LastIndexByte(s[:pos], '-') {
		if pos+1 < len(s) && s[pos+1] >= '0' && s[pos+1] <= '9' {
			return pos + 1, true
		}
	}
	return 0, false
}

// ParseAtom splits "category/name-version" into its components. It returns
// false if no category/name separator or no version boundary was found.
func ParseAtom(atom string) (event.Key, bool) {
	versionStart, ok := findVersionPos(atom)
	if !ok {
		return event.Key{}, false
	}
	ebuild := atom[:versionStart-1]
	version := atom[versionStart:]
	slash := strings.IndexByte(ebuild, '/')
	if slash < 0 {
		return event.Key{}, false
	}
	return event.Key{Category: ebuild[:slash], Name: ebuild[slash+1:], Version: version}, true
}
