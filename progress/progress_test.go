package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestBarRendersCounts(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar("views", 4)
	b.SetOutput(&buf)

	b.Increment()
	b.Increment()
	if !strings.Contains(buf.String(), "2/4") {
		t.Errorf("expected output to contain 2/4, got %q", buf.String())
	}

	b.Finish()
	out := buf.String()
	if !strings.Contains(out, "100%") {
		t.Errorf("expected output to contain 100%%, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish should terminate the line")
	}
}

func TestBarZeroTotalIsSilent(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar("empty", 0)
	b.SetOutput(&buf)
	b.Increment()
	if buf.Len() != 0 {
		t.Errorf("expected no output for zero total, got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{5 * time.Second, "00:05"},
		{90 * time.Second, "01:30"},
		{3930 * time.Second, "1:05:30"},
	}

	for _, test := range tests {
		if got := formatDuration(test.d); got != test.expected {
			t.Errorf("formatDuration(%v) = %s, expected %s", test.d, got, test.expected)
		}
	}
}
