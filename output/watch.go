package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Watch is a live-refreshing table view for `predict --watch`, adapting go-synth/build/ui_ncurses.go's
// Application/Flex/TextView draw-loop idiom from a multi-pane build
// monitor down to a single bordered table that one goroutine refreshes on
// an interval.
type Watch struct {
	app   *tview.Application
	table *tview.Table
	title string

	mu      sync.Mutex
	onQuit  func()
	stopped bool
}

// NewWatch creates a Watch with the given pane title.
func NewWatch(title string) *Watch {
	return &Watch{title: title}
}

// Start builds the layout and begins the application's event loop in a
// goroutine. refresh is called once immediately and then every interval,
// and should call Update with fresh rows.
func (w *Watch) Start(interval time.Duration, refresh func(w *Watch)) error {
	w.app = tview.NewApplication()
	w.table = tview.NewTable().SetBorders(false).SetSelectable(false, false)
	w.table.SetBorder(true).SetTitle(" " + w.title + " ").SetTitleAlign(tview.AlignLeft)

	w.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			w.Stop()
			return nil
		}
		return ev
	})

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		refresh(w)
		for {
			select {
			case <-ticker.C:
				refresh(w)
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	err := w.app.SetRoot(w.table, true).Run()
	close(done)
	return err
}

// Stop ends the application's event loop.
func (w *Watch) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	if w.app != nil {
		w.app.Stop()
	}
}

// Update replaces the table's contents with rows, header as row 0. Must be
// safe to call from the refresh goroutine; QueueUpdateDraw marshals the
// redraw onto tview's own event loop.
func (w *Watch) Update(header []string, rows [][]string, statusColor func(row int) tcell.Color) {
	w.app.QueueUpdateDraw(func() {
		w.table.Clear()
		for c, h := range header {
			w.table.SetCell(0, c, tview.NewTableCell(h).SetAttributes(tcell.AttrBold).SetSelectable(false))
		}
		for r, row := range rows {
			color := tcell.ColorWhite
			if statusColor != nil {
				color = statusColor(r)
			}
			for c, v := range row {
				w.table.SetCell(r+1, c, tview.NewTableCell(fmt.Sprintf(" %s ", v)).SetTextColor(color))
			}
		}
	})
}
