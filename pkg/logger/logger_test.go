package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logger
	logger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		logger = orig
		Init("info")
	})
	return &buf
}

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "[WARN] warn-msg") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error-msg") {
		t.Fatalf("error message missing: %q", out)
	}
}

func TestNamedComponentPrefix(t *testing.T) {
	buf := captureOutput(t)
	Init("debug")

	Named("store").Infof("fetched %d users", 3)
	if !strings.Contains(buf.String(), "[INFO] store: fetched 3 users") {
		t.Fatalf("component prefix missing: %q", buf.String())
	}

	Init("error")
	buf.Reset()
	Named("store").Warnf("hidden")
	if buf.Len() != 0 {
		t.Fatalf("warn should be suppressed at error level, got %q", buf.String())
	}
}

func TestFatalfExits(t *testing.T) {
	buf := captureOutput(t)
	code := -1
	origExit := exit
	exit = func(c int) { code = c }
	defer func() { exit = origExit }()

	Init("fatal")
	Fatalf("boom")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "[FATAL] boom") {
		t.Fatalf("fatal message missing: %q", buf.String())
	}
}
