package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	t.Cleanup(func() { baseLogger = saved })
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel("warn")
	defer SetLevel("info")

	Infof("hidden")
	Warnf("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message leaked at warn level: %s", out)
	}
	if !strings.Contains(out, "[WARN] visible") {
		t.Fatalf("warn message missing: %s", out)
	}
}

func TestInfofNoDoubleFormattingWithPercent(t *testing.T) {
	buf := capture(t)
	SetLevel("info")

	msg := "defect rate = 50.00% of 1000000"
	// Call through a variable: the dynamic format string is the point of
	// this test, and a direct call trips vet's printf check.
	infof := Infof
	infof(msg)

	out := buf.String()
	if !strings.Contains(out, "50.00% of 1000000") {
		t.Fatalf("log output missing percent segment: %s", out)
	}
	if strings.Contains(out, "(MISSING)") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	SetLevel("info")
	SetLevel("bogus")
	if GetLevel() != LevelInfo {
		t.Fatalf("unknown level changed state to %v", GetLevel())
	}
}
