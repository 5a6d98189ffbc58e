package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_FileGetsJSONAboveLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "player.log")

	log, closer, err := New(Options{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("path", "/music/a.mp3").Msg("Could not read duration")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["level"] != "warn" || entry["path"] != "/music/a.mp3" {
		t.Errorf("entry = %v", entry)
	}
	if s, _ := entry["session"].(string); s == "" {
		t.Error("entry has no session id")
	}
}

func TestNew_FileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.log")

	for i := 0; i < 2; i++ {
		log, closer, err := New(Options{File: path})
		if err != nil {
			t.Fatal(err)
		}
		log.Info().Msg("started")
		closer.Close()
	}

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "started"); n != 2 {
		t.Errorf("found %d entries, want 2", n)
	}
}

func TestNew_ConsoleIsPlainText(t *testing.T) {
	var buf bytes.Buffer

	log, _, err := New(Options{Level: "debug", Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug().Msg("Library loaded")

	out := buf.String()
	if !strings.Contains(out, "Library loaded") {
		t.Errorf("console output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("non-terminal output should not be colored: %q", out)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("New() with an unknown level should fail")
	}
}

func TestNew_NoOutputs(t *testing.T) {
	log, closer, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	log.Error().Msg("dropped")
	if err := closer.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
