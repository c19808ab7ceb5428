// Package progress renders a terminal progress bar for long per-camera
// loops.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Bar is a single-line terminal progress indicator.
type Bar struct {
	description string
	total       int
	current     int
	startTime   time.Time
	width       int
	out         io.Writer
}

// NewBar creates a progress bar writing to stdout.
func NewBar(description string, total int) *Bar {
	return &Bar{
		description: description,
		total:       total,
		startTime:   time.Now(),
		width:       40,
		out:         os.Stdout,
	}
}

// SetOutput redirects the bar, e.g. to io.Discard in tests.
func (b *Bar) SetOutput(w io.Writer) {
	b.out = w
}

// Increment advances the bar by one step.
func (b *Bar) Increment() {
	b.current++
	b.render()
}

// Finish completes the bar and terminates the line.
func (b *Bar) Finish() {
	b.current = b.total
	b.render()
	fmt.Fprintln(b.out)
}

func (b *Bar) render() {
	if b.total <= 0 {
		return
	}

	percentage := float64(b.current) / float64(b.total)
	if percentage > 1.0 {
		percentage = 1.0
	}

	filled := int(percentage * float64(b.width))
	if filled > b.width {
		filled = b.width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat(" ", b.width-filled)

	elapsed := time.Since(b.startTime)
	line := fmt.Sprintf("\r%s: %3.0f%%|%s| %d/%d [%s",
		b.description, percentage*100, bar, b.current, b.total, formatDuration(elapsed))

	if b.current > 0 && percentage > 0 && percentage < 1 {
		eta := time.Duration(float64(elapsed)/percentage) - elapsed
		line += fmt.Sprintf("<%s", formatDuration(eta))
	} else {
		line += "<00:00"
	}

	if b.current > 0 {
		line += fmt.Sprintf(", %.2fit/s", float64(b.current)/elapsed.Seconds())
	}
	line += "]"

	fmt.Fprint(b.out, line)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m >= 60 {
		h := m / 60
		m = m % 60
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
