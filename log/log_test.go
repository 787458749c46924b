package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogDir(t *testing.T) {
	// Nil config falls back to the default location.
	dir, err := LogDir(nil)
	if err != nil {
		t.Errorf("LogDir failed with nil config: %v", err)
	}
	if dir == "" {
		t.Error("LogDir returned empty string for nil config")
	}

	// Disabled logging goes to the temp dir.
	cfg := &Config{Enabled: false}
	dir, err = LogDir(cfg)
	if err != nil {
		t.Errorf("LogDir failed with disabled logging: %v", err)
	}
	if dir != os.TempDir() {
		t.Errorf("LogDir should return temp dir for disabled logging, got %s", dir)
	}

	// Custom directory is honored as-is.
	cfg = &Config{Enabled: true, Dir: "/custom/log/dir"}
	dir, err = LogDir(cfg)
	if err != nil {
		t.Errorf("LogDir failed with custom log dir: %v", err)
	}
	if dir != "/custom/log/dir" {
		t.Errorf("LogDir should return custom log dir, got %s", dir)
	}

	// Default directory lives under ~/.appmodel/logs.
	cfg = &Config{Enabled: true}
	dir, err = LogDir(cfg)
	if err != nil {
		t.Errorf("LogDir failed with default log dir: %v", err)
	}
	if !strings.Contains(dir, ".appmodel"+string(filepath.Separator)+"logs") {
		t.Errorf("LogDir should return default log dir, got %s", dir)
	}
}

func TestLogFilePath(t *testing.T) {
	cfg := &Config{Enabled: true, Dir: t.TempDir()}
	path, err := LogFilePath(cfg)
	if err != nil {
		t.Fatalf("LogFilePath failed: %v", err)
	}
	if filepath.Base(path) != "appmodel.log" {
		t.Errorf("unexpected log file name in %s", path)
	}
}

func TestInitializeWritesToFile(t *testing.T) {
	dir := t.TempDir()
	InitializeWithConfig(&Config{Enabled: true, Dir: dir, MaxSize: 1})
	defer Close()

	InfoLog.Printf("hello from test")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "appmodel.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing test message, got: %s", data)
	}
}
