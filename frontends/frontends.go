package frontends

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// NewWriter prepares w for output containing ANSI escapes. Terminals get
// them translated where needed, everything else gets them stripped.
func NewWriter(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return colorable.NewColorable(f)
	}
	return colorable.NewNonColorable(w)
}

// center pads s on both sides to mustLen display columns. Longer strings are
// returned unchanged, a city name is never cut.
func center(s string, mustLen int) string {
	delta := mustLen - runewidth.StringWidth(s)
	if delta <= 0 {
		return s
	}
	left := delta / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", delta-left)
}

// pad fills s on the right to mustLen display columns.
func pad(s string, mustLen int) string {
	return runewidth.FillRight(runewidth.Truncate(s, mustLen, "…"), mustLen)
}
