package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetState() {
	CloseAll()
	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()
	logsDir = ""
	debugMode = false
	jsonFormat = false
	categories = nil
	logLevel = LevelInfo
}

func TestInitializeDisabledIsNoop(t *testing.T) {
	resetState()
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")

	if err := Initialize(logDir, false, "info", false, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if IsDebugMode() {
		t.Fatal("expected debug mode disabled")
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Fatal("expected no logs directory to be created in disabled mode")
	}

	Get(CategoryIndex).Info("should not write anything")
}

func TestInitializeEnabledCreatesCategoryFiles(t *testing.T) {
	resetState()
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")

	if err := Initialize(logDir, true, "debug", false, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer resetState()

	Get(CategoryIndex).Info("building index with %d chunks", 3)
	Get(CategoryAPIClient).Error("call failed: %v", "boom")
	CloseAll()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "boot") {
		t.Errorf("expected a boot log file from Initialize, got %v", names)
	}
	if !strings.Contains(joined, "index") {
		t.Errorf("expected an index log file, got %v", names)
	}
	if !strings.Contains(joined, "apiclient") {
		t.Errorf("expected an apiclient log file, got %v", names)
	}
}

func TestCategoryDisableList(t *testing.T) {
	resetState()
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")

	if err := Initialize(logDir, true, "info", false, map[string]bool{"tokens": false}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer resetState()

	if IsCategoryEnabled(CategoryTokens) {
		t.Fatal("expected tokens category to be disabled")
	}
	if !IsCategoryEnabled(CategoryKeywords) {
		t.Fatal("expected keywords category to default to enabled")
	}
}

func TestTimerStopWithThreshold(t *testing.T) {
	resetState()
	dir := t.TempDir()
	if err := Initialize(filepath.Join(dir, "logs"), true, "debug", false, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer resetState()

	timer := StartTimer(CategoryTrend, "aggregate")
	if d := timer.StopWithThreshold(time.Minute); d < 0 {
		t.Fatalf("expected non-negative duration, got %v", d)
	}
}
