package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	for l := LevelDebug; l <= LevelQuiet; l++ {
		if got := ParseLogLevel(l.String()); got != l {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", l.String(), got, l)
		}
	}
	if got := ParseLogLevel("verbose"); got != LevelInfo {
		t.Errorf("ParseLogLevel(verbose) = %v, want info", got)
	}
}

func TestConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(LevelWarn, &buf)
	log.Debug("row %d", 1)
	log.Info("frame %d", 2)
	log.Warn("late %d", 3)
	log.Error("failed %d", 4)
	out := buf.String()
	if strings.Contains(out, "1") || strings.Contains(out, "2") {
		t.Errorf("messages below warn were written: %q", out)
	}
	if !strings.Contains(out, "3") || !strings.Contains(out, "4") {
		t.Errorf("warn or error missing: %q", out)
	}
}

func TestConsoleComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(LevelDebug, &buf).WithComponent("me")
	log.Debug("row %d", 7)
	if got := buf.String(); !strings.HasPrefix(got, "[me] ") || !strings.Contains(got, "7") {
		t.Errorf("output = %q", got)
	}
}

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(LevelQuiet, &buf)
	log.Error("failed")
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
	var _ Logger = NewNoop()
}
