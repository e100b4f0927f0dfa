package env_test

import (
	"boxdiff/internal/env"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOrDefault(t *testing.T) {
	t.Setenv("BOXDIFF_TEST_STRING", "value")
	t.Setenv("BOXDIFF_TEST_INT", "42")
	t.Setenv("BOXDIFF_TEST_BROKEN_INT", "forty-two")
	t.Setenv("BOXDIFF_TEST_FLOAT", "0.25")
	t.Setenv("BOXDIFF_TEST_BOOL", "true")
	t.Setenv("BOXDIFF_TEST_DURATION", "1m30s")
	t.Setenv("BOXDIFF_TEST_UINT", "7")

	if diff := cmp.Diff("value", env.OrDefault("BOXDIFF_TEST_STRING", "default")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("default", env.OrDefault("BOXDIFF_TEST_MISSING", "default")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(42, env.OrDefault("BOXDIFF_TEST_INT", 1)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, env.OrDefault("BOXDIFF_TEST_BROKEN_INT", 1)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(0.25, env.OrDefault("BOXDIFF_TEST_FLOAT", 0.05)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(true, env.OrDefault("BOXDIFF_TEST_BOOL", false)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(90*time.Second, env.OrDefault("BOXDIFF_TEST_DURATION", time.Second)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint(7), env.OrDefault("BOXDIFF_TEST_UINT", uint(0))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	if err := os.WriteFile(file, []byte("BOXDIFF_TEST_LOADED=from-file\nBOXDIFF_TEST_PRESET=from-file\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Setenv("BOXDIFF_TEST_PRESET", "from-env")
	// registers cleanup for the variable Load sets
	t.Setenv("BOXDIFF_TEST_LOADED", "")
	os.Unsetenv("BOXDIFF_TEST_LOADED")

	if err := env.Load(file, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("from-file", os.Getenv("BOXDIFF_TEST_LOADED")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("from-env", os.Getenv("BOXDIFF_TEST_PRESET")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
