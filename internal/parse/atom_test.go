package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mlog/internal/event"
)

func TestParseAtom(t *testing.T) {
	cases := []struct {
		in   string
		want event.Key
		ok   bool
	}{
		{"", event.Key{}, false},
		{"a", event.Key{}, false},
		{"-", event.Key{}, false},
		{"42", event.Key{}, false},
		{"-42", event.Key{}, false},
		{"42-", event.Key{}, false},
		{"a-/", event.Key{}, false},
		{"a-0", event.Key{}, false}, // no category separator
		{"c/a-0", event.Key{Category: "c", Name: "a", Version: "0"}, true},
		{"c/a-b-2", event.Key{Category: "c", Name: "a-b", Version: "2"}, true},
		{"c/a-b-2-3", event.Key{Category: "c", Name: "a-b-2", Version: "3"}, true},
		{"c/a-b-2-3_r1", event.Key{Category: "c", Name: "a-b-2", Version: "3_r1"}, true},
		{"c/a-b-2foo-4", event.Key{Category: "c", Name: "a-b-2foo", Version: "4"}, true},
	}
	for _, c := range cases {
		got, ok := ParseAtom(c.in)
		require.Equal(t, c.ok, ok, c.in)
		if c.ok {
			require.Equal(t, c.want, got, c.in)
		}
	}
}
