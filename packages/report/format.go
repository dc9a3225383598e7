package report

import (
	"strconv"
	"time"

	"github.com/fatih/color"
)

// Style is a set of terminal attributes applied to a piece of text.
type Style []color.Attribute

var (
	StyleRunning     = Style{color.Bold, color.FgHiBlack}
	StyleTestName    = Style{color.Bold}
	StylePass        = Style{color.Reset, color.Bold, color.BgGreen}
	StyleFail        = Style{color.Reset, color.Bold, color.BgRed}
	StyleSlow        = Style{color.Reset, color.Bold, color.BgRed}
	StyleFailTitle   = Style{color.Bold, color.FgRed}
	StyleStack       = Style{color.Faint}
	StyleSummaryPass = Style{color.Bold, color.FgGreen}
	StyleSummaryFail = Style{color.Bold, color.FgRed}
	StylePassMark    = Style{color.FgGreen}
	StyleFailMark    = Style{color.FgRed}
	StylePendingMark = Style{color.FgYellow}
)

// Format wraps text in the escape sequences for style. With NoHighlight
// set the text is returned unchanged. Colors are forced on otherwise, so
// NoHighlight is the only switch.
func Format(text string, style Style, cfg Config) string {
	if cfg.NoHighlight || len(style) == 0 {
		return text
	}
	c := color.New(style...)
	c.EnableColor()
	return c.Sprint(text)
}

// FormatSeconds renders d in seconds with millisecond precision and no
// trailing zeros, e.g. "0.25", "3", "12.007".
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Milliseconds())/1000, 'f', -1, 64)
}

// Plural returns word, with an "s" appended unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
