package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunStats(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "querystash.toml", `cache_root = "cache"`)

	var stdout, stderr strings.Builder
	code := run(context.Background(), []string{"-c", cfg, "-stats"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "entries: 0") {
		t.Errorf("unexpected stats output: %s", stdout.String())
	}
}

func TestRunCleanupOnEmptyCache(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "querystash.toml", `cache_root = "cache"`)

	var stdout, stderr strings.Builder
	code := run(context.Background(), []string{"-c", cfg, "-cleanup"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "removed 0 expired entries") {
		t.Errorf("unexpected cleanup output: %s", stdout.String())
	}
}

func TestRunListQueries(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "users.sql", `-- name: GetUser :select
-- @cache ttl=5m
SELECT * FROM users WHERE id = :id;
`)

	var stdout, stderr strings.Builder
	code := run(context.Background(), []string{"-list-queries", lib}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "GetUser") || !strings.Contains(out, "ttl=5m0s") {
		t.Errorf("unexpected list output: %s", out)
	}
}

func TestRunMissingConfig(t *testing.T) {
	var stdout, stderr strings.Builder
	code := run(context.Background(), []string{"-c", filepath.Join(t.TempDir(), "absent.toml"), "-stats"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if stderr.Len() == 0 {
		t.Error("expected an error message on stderr")
	}
}

func TestRunNoAction(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "querystash.toml", `store = "memory"`)

	var stdout, stderr strings.Builder
	code := run(context.Background(), []string{"-c", cfg}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1 without an action, got %d", code)
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr strings.Builder
	code := run(context.Background(), []string{"-h"}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0 for -h, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Usage of querystash") {
		t.Errorf("expected usage text, got: %s", stdout.String())
	}
}
