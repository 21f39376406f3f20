package output

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// colorWriter wraps an inner Writer, applying an ANSI SGR code (derived
// from a tcell.Color, so the same color constants used by the --watch
// tview view also drive plain-stdout --color output) to a chosen column.
type colorWriter struct {
	inner  Writer
	column int
	color  tcell.Color
}

// NewColor wraps inner so that column col of every row is colorized with
// color when --color is set. col < 0 disables colorizing (equivalent to
// inner).
func NewColor(inner Writer, col int, color tcell.Color) Writer {
	if col < 0 {
		return inner
	}
	return &colorWriter{inner: inner, column: col, color: color}
}

func (c *colorWriter) Row(cols []string) {
	if c.column >= len(cols) {
		c.inner.Row(cols)
		return
	}
	out := append([]string(nil), cols...)
	r, g, b := c.color.RGB()
	out[c.column] = fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, cols[c.column])
	c.inner.Row(out)
}

func (c *colorWriter) Flush() error { return c.inner.Flush() }

// Status colors, shared between plain --color output and the --watch
// table view.
var (
	ColorOverdue = tcell.ColorRed
	ColorKnown   = tcell.ColorGreen
	ColorUnknown = tcell.ColorYellow
)
