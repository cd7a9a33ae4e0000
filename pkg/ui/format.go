package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// WrapText wraps s to maxWidth columns, prefixing continuation lines with
// indent. Width is measured in printable cells so ANSI colour sequences and
// wide runes survive intact. Words longer than the available width are
// broken by cells. maxWidth of 0 disables wrapping.
func WrapText(s, indent string, maxWidth int) string {
	if maxWidth <= 0 || ansi.PrintableRuneWidth(s) <= maxWidth {
		return s
	}

	availableWidth := maxWidth - ansi.PrintableRuneWidth(indent)
	if availableWidth < 20 {
		availableWidth = 20 // Minimum width to avoid breaking too aggressively
	}

	wrapped := wrap.String(wordwrap.String(s, availableWidth), availableWidth)
	lines := strings.Split(wrapped, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

// formatPorts renders a port list as "8080, 5005".
func formatPorts(ports []uint16) string {
	if len(ports) == 0 {
		return "none"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}

// formatAge renders how long ago t was, rounded to seconds.
func formatAge(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Round(time.Second)
	if d < time.Second {
		return "just now"
	}
	return d.String() + " ago"
}
