package embedding

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"issuelens/internal/logging"
)

// SnapshotDir returns the HF-style cache directory for a model:
// <modelsRoot>/models--<org>--<name>/snapshots/. issuelens's own backends
// (Ollama server, GenAI cloud API) never read weights out of this
// directory — neither serves embeddings from locally-loaded weight files —
// but the layout is honored for compatibility with tooling that inspects
// the models/ directory as an opaque cache.
func SnapshotDir(modelsRoot, org, name string) string {
	return filepath.Join(modelsRoot, fmt.Sprintf("models--%s--%s", org, name), "snapshots")
}

// MostRecentSnapshot returns the most-recently-modified subdirectory of
// snapshotDir, or ok=false if none exists yet.
func MostRecentSnapshot(snapshotDir string) (path string, ok bool, err error) {
	entries, err := os.ReadDir(snapshotDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}

	var latest os.DirEntry
	var latestMod time.Time
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == nil || info.ModTime().After(latestMod) {
			latest = e
			latestMod = info.ModTime()
		}
	}
	if latest == nil {
		return "", false, nil
	}
	return filepath.Join(snapshotDir, latest.Name()), true, nil
}

// EnsureSnapshotMarker records that the model identified by org/name has
// been confirmed reachable as of now: it returns the most recent snapshot
// subdirectory if one exists, or creates a new timestamped one and writes
// a marker file into it. The directory's presence and mtime are the only
// things that matter; its contents are never read back by the engines.
func EnsureSnapshotMarker(modelsRoot, org, name string) (string, error) {
	dir := SnapshotDir(modelsRoot, org, name)
	if existing, ok, err := MostRecentSnapshot(dir); err != nil {
		return "", err
	} else if ok {
		logging.EmbeddingDebug("model snapshot marker already present: %s", existing)
		return existing, nil
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	snapshot := filepath.Join(dir, stamp)
	if err := os.MkdirAll(snapshot, 0o755); err != nil {
		return "", fmt.Errorf("embedding: create snapshot marker %s: %w", snapshot, err)
	}
	marker := filepath.Join(snapshot, "PULLED_AT")
	if err := os.WriteFile(marker, []byte(time.Now().UTC().Format(time.RFC3339)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("embedding: write snapshot marker: %w", err)
	}
	logging.Embedding("created model snapshot marker: %s", snapshot)
	return snapshot, nil
}
