// Package render turns a metrics snapshot, the current message, and a
// scroll offset into a Frame of positioned text lines for a 128x64
// monochrome display. Layout is pure and hardware-free; widths are a
// character-count heuristic, never measured pixel widths.
package render

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/luna-display/metrics"
)

const (
	// Width is the addressable display width in pixels.
	Width = 128
	// Height is the addressable display height in pixels.
	Height = 64

	// LineThreshold is the character count above which a message scrolls
	// as a marquee instead of wrapping.
	LineThreshold = 25

	// ScrollStep is how many characters the marquee window advances per tick.
	ScrollStep = 6

	statusY     = 0
	ipY         = 10
	messageY    = 20
	lineSpacing = 8
	maxY        = 60
)

// Line is a single positioned text draw instruction.
type Line struct {
	Text string
	X    int
	Y    int
}

// Frame is one full display update, top to bottom.
type Frame []Line

// Render builds the frame for one cycle: a fixed CPU/RAM status line, a
// fixed IP line, and the message laid out by one of two policies chosen by
// its length against LineThreshold.
func Render(snap metrics.Snapshot, text string, offset int) Frame {
	f := Frame{
		{Text: fmt.Sprintf("LUNA: CPU: %d%% RAM: %d%%", snap.CPU, snap.RAM), X: 0, Y: statusY},
		{Text: "IP: " + snap.IP, X: 0, Y: ipY},
	}

	if len(text) > LineThreshold {
		f = append(f, Line{Text: scrollWindow(text, offset), X: 0, Y: messageY})
		return f
	}

	return append(f, packLines(wrapWords(text, LineThreshold))...)
}

// packLines places wrapped lines at successive vertical offsets starting at
// messageY. Lines that would land at or past the display-area bound are
// dropped silently; this is a deliberate bound, not an error.
func packLines(lines []string) []Line {
	var out []Line
	y := messageY
	for _, line := range lines {
		if y >= maxY {
			break
		}
		out = append(out, Line{Text: line, X: 0, Y: y})
		y += lineSpacing
	}
	return out
}

// Advance moves the scroll cursor for the next cycle. Short messages keep
// no scroll state; long ones advance modulo the raw message length so the
// window position cycles with period equal to the message length.
func Advance(text string, offset int) int {
	if len(text) <= LineThreshold {
		return 0
	}
	return (offset + ScrollStep) % len(text)
}

// scrollWindow extracts a LineThreshold-wide window from the message
// concatenated with itself (space-separated), so the marquee wraps
// seamlessly.
func scrollWindow(text string, offset int) string {
	looped := text + " " + text
	start := offset % len(text)
	end := start + LineThreshold
	if end > len(looped) {
		end = len(looped)
	}
	return looped[start:end]
}

// wrapWords greedily packs words into lines of at most width characters.
// A single word longer than width gets its own line.
func wrapWords(text string, width int) []string {
	var lines []string
	var cur string

	for _, word := range strings.Fields(text) {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	return lines
}
