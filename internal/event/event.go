// Package event defines the typed values produced by the log parser.
//
// Events are immutable once emitted: a Kind tag plus the fields relevant to
// that kind. Callers dispatch on Kind rather than relying on a type
// hierarchy, per the flat-union shape the rest of the pipeline expects.
package event

import "fmt"

// Kind tags the variant carried by an Event.
type Kind uint8

const (
	MergeStart Kind = iota
	MergeStop
	UnmergeStart
	UnmergeStop
	SyncStart
	SyncStop
	CommandStart
)

func (k Kind) String() string {
	switch k {
	case MergeStart:
		return "MergeStart"
	case MergeStop:
		return "MergeStop"
	case UnmergeStart:
		return "UnmergeStart"
	case UnmergeStop:
		return "UnmergeStop"
	case SyncStart:
		return "SyncStart"
	case SyncStop:
		return "SyncStop"
	case CommandStart:
		return "CommandStart"
	default:
		return "Unknown"
	}
}

// Key identifies a package by category, name, and optional version.
//
// Equality over (Category, Name) is the aggregation key used by history and
// statistics; Version is retained for display and accuracy reporting.
type Key struct {
	Category string
	Name     string
	Version  string // empty for events that carry no version (sync)
}

// ID returns the (category, name) aggregation key, ignoring version.
func (k Key) ID() string {
	return k.Category + "/" + k.Name
}

// String renders "category/name-version", or "category/name" if Version is empty.
func (k Key) String() string {
	if k.Version == "" {
		return k.ID()
	}
	return fmt.Sprintf("%s/%s-%s", k.Category, k.Name, k.Version)
}

// Event is one entry in the ordered stream the parser produces.
//
// Only the fields relevant to Kind are populated; the rest are zero. Ts is
// always set.
type Event struct {
	Kind Kind
	Ts   int64

	Pkg Key // set for Merge*/Unmerge*

	IterIndex int  // set for Merge*; 1-based
	IterTotal int  // set for Merge*
	Binary    bool // set for MergeStart

	Repo string // set for Sync*; may be empty on SyncStart

	Argv []string // set for CommandStart
}

func (e Event) String() string {
	switch e.Kind {
	case MergeStart, MergeStop:
		return fmt.Sprintf("%s@%d %s (%d of %d)", e.Kind, e.Ts, e.Pkg, e.IterIndex, e.IterTotal)
	case UnmergeStart, UnmergeStop:
		return fmt.Sprintf("%s@%d %s", e.Kind, e.Ts, e.Pkg)
	case SyncStart, SyncStop:
		return fmt.Sprintf("%s@%d repo=%q", e.Kind, e.Ts, e.Repo)
	default:
		return fmt.Sprintf("%s@%d", e.Kind, e.Ts)
	}
}
