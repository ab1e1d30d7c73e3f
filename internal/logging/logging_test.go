package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q)=%v want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, FormatJSON, &buf)
	l.Debug("hidden")
	l.Info("shown", "page", 7)

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record leaked at info level: %s", out)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if rec["msg"] != "shown" {
		t.Fatalf("msg=%v", rec["msg"])
	}
	if rec["page"] != float64(7) {
		t.Fatalf("page=%v", rec["page"])
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, ParseFormat("text"), &buf)
	l.Debug("trace", "k", "v")
	if !strings.Contains(buf.String(), "k=v") {
		t.Fatalf("text output=%q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := OrDiscard(nil)
	if l.Enabled(context.Background(), 0) {
		t.Fatalf("discard logger reports enabled")
	}
	l.Error("nothing happens")
}
