// Package parse turns the raw bytes of an emerge.log (optionally gzipped)
// into a stream of mlog/internal/event.Event values.
//
// It offers a forward iteration mode (used by every report that needs the
// whole log, or a date-range prefix of it) and a reverse iteration mode
// (used by `log --last N`, to avoid reading the full file). Reverse mode
// does not apply to compressed input; ParseReverse transparently falls back
// to a bounded forward scan in that case.
package parse

import (
	"bufio"

	"mlog/internal/event"
)

// Sink receives non-fatal diagnostics raised while scanning. Verbosity
// gating is the caller's responsibility (see internal/diag).
type Sink interface {
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

// NopSink discards all diagnostics.
type NopSink struct{}

func (NopSink) Warnf(string, ...any) {}
func (NopSink) Infof(string, ...any) {}

const maxLineLen = 1 << 20 // truncated/corrupt lines beyond this are skipped, not OOM-inducing

// ParseForward scans path from the beginning, calling fn for every
// recognised event in file order. fn returning false stops the scan early
// (used for --first N and consumer early exit) without treating it as an
// error.
func ParseForward(path string, sink Sink, fn func(event.Event) bool) error {
	r, closer, _, err := openDecompressed(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineLen)

	var prevT int64
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if !scanOneLine(sc.Text(), lineNo, &prevT, sink, fn) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		sink.Warnf("line %d: %v", lineNo, err)
	}
	return nil
}

// scanOneLine parses one raw line, dispatches diagnostics, and invokes fn
// for a match. It returns false when fn asked to stop.
func scanOneLine(raw string, lineNo int, prevT *int64, sink Sink, fn func(event.Event) bool) bool {
	ts, rest, ok := parseTimestamp(raw)
	if !ok {
		sink.Infof("line %d: no leading timestamp, skipped", lineNo)
		return true
	}
	if *prevT > ts {
		sink.Warnf("line %d: system clock jump %d -> %d", lineNo, *prevT, ts)
	}
	*prevT = ts
	ev, diags, matched := matchLine(ts, rest, lineNo)
	for _, d := range diags {
		sink.Warnf("line %d: %s", d.Line, d.Msg)
	}
	if !matched {
		sink.Infof("line %d: unrecognised", lineNo)
		return true
	}
	return fn(ev)
}

// ParseReverse scans path from the end, calling fn for the most recent
// `limit` recognised events, delivered to fn in file order (oldest first)
// once the scan completes. On plain input the backward scan goes on past
// `limit` until every Stop it collected has its Start, so more than `limit`
// events can be delivered. For gzip input it falls back to a bounded
// forward scan that keeps exactly the last `limit` matches in memory.
func ParseReverse(path string, limit int, sink Sink, fn func(event.Event) bool) error {
	if limit <= 0 {
		return nil
	}
	isGzip, err := sniffGzip(path)
	if err != nil {
		return err
	}
	if isGzip {
		sink.Infof("gzip input: reverse iteration unsupported, falling back to a bounded forward scan")
		return parseForwardTail(path, limit, sink, fn)
	}
	return parseReverseTail(path, limit, sink, fn)
}

func parseReverseTail(path string, limit int, sink Sink, fn func(event.Event) bool) error {
	it, err := newReverseLineIterator(path)
	if err != nil {
		return err
	}
	defer it.Close()

	var found []event.Event
	pending := newPendingOpens()
	lineNo := 0 // approximate: counts lines seen backward, for diagnostics only
	// Keep reading past limit while a Stop already in found still has no
	// matching Start: since Start always precedes its Stop, the only way to
	// resolve it is to keep scanning backward until found (or BOF proves it
	// was never there). Stopping at exactly `limit` would otherwise report a
	// pair straddling the window boundary as unmatched even though a
	// forward scan would have resolved it.
	for len(found) < limit || !pending.empty() {
		line, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		lineNo++
		ts, rest, ok := parseTimestamp(line)
		if !ok {
			continue
		}
		ev, _, matched := matchLine(ts, rest, lineNo)
		if !matched {
			continue
		}
		found = append(found, ev)
		pending.observe(ev)
	}
	for i := len(found) - 1; i >= 0; i-- {
		if !fn(found[i]) {
			return nil
		}
	}
	return nil
}

// pendingOpens tracks Stop events seen (scanning backward, so before their
// Start) whose matching Start hasn't been seen yet.
type pendingOpens struct {
	merge   map[string]int
	unmerge map[string]int
	sync    int
}

func newPendingOpens() *pendingOpens {
	return &pendingOpens{merge: map[string]int{}, unmerge: map[string]int{}}
}

func (p *pendingOpens) observe(e event.Event) {
	switch e.Kind {
	case event.MergeStop:
		p.merge[e.Pkg.String()]++
	case event.MergeStart:
		p.resolve(p.merge, e.Pkg.String())
	case event.UnmergeStop:
		p.unmerge[e.Pkg.String()]++
	case event.UnmergeStart:
		p.resolve(p.unmerge, e.Pkg.String())
	case event.SyncStop:
		p.sync++
	case event.SyncStart:
		if p.sync > 0 {
			p.sync--
		}
	}
}

func (p *pendingOpens) resolve(m map[string]int, key string) {
	if m[key] <= 0 {
		return
	}
	m[key]--
	if m[key] == 0 {
		delete(m, key)
	}
}

func (p *pendingOpens) empty() bool {
	return len(p.merge) == 0 && len(p.unmerge) == 0 && p.sync == 0
}

// parseForwardTail performs a full forward scan but only retains the last
// `limit` matches, emitting them in order once the scan is done. This is
// the fallback path for compressed logs, which cannot be read backward
// without decompressing the whole stream anyway.
func parseForwardTail(path string, limit int, sink Sink, fn func(event.Event) bool) error {
	ring := make([]event.Event, 0, limit)
	err := ParseForward(path, sink, func(e event.Event) bool {
		if len(ring) == limit {
			copy(ring, ring[1:])
			ring = ring[:limit-1]
		}
		ring = append(ring, e)
		return true
	})
	if err != nil {
		return err
	}
	for _, e := range ring {
		if !fn(e) {
			return nil
		}
	}
	return nil
}
