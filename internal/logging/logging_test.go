package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("hello", "atoms", 9)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if rec["msg"] != "hello" || rec["atoms"] != float64(9) {
		t.Errorf("unexpected record %v", rec)
	}

	buf.Reset()
	l, err = New(Config{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("dropped")
	l.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "msg=kept") {
		t.Errorf("default should be text at warn level, got %q", buf.String())
	}
}

func TestBadConfig(t *testing.T) {
	for _, cfg := range []Config{{Level: "loud"}, {Format: "xml"}} {
		if _, err := New(cfg, &bytes.Buffer{}); !errors.Is(err, ErrConfig) {
			t.Errorf("%+v: expected ErrConfig, got %v", cfg, err)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	t.Setenv(EnvFormat, "json")
	cfg := FromEnv(Config{Level: "debug"})
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("flags should win over the environment, got %+v", cfg)
	}
	if lv, _ := ParseLevel(FromEnv(Config{}).Level); lv != slog.LevelError {
		t.Errorf("level not read from the environment: %v", lv)
	}
}

func TestSetup(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)
	var buf bytes.Buffer
	if _, err := Setup(Config{Level: "info"}, &buf); err != nil {
		t.Fatal(err)
	}
	slog.Info("through the default")
	if !strings.Contains(buf.String(), "through the default") {
		t.Errorf("default logger not replaced, got %q", buf.String())
	}
}
