package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCachePathAndClear(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME only applies on linux")
	}
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join(home, appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	// A cached conversion leaves entries behind.
	if _, err := run(t, "convert", copyDemo(t), "-o", t.TempDir()); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if n := countFiles(t, want); n == 0 {
		t.Fatal("convert should populate the cache")
	}

	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if n := countFiles(t, want); n != 0 {
		t.Errorf("%d files left after clear", n)
	}
}

func TestCacheClearEmpty(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME only applies on linux")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if _, err := run(t, "cache", "clear"); err != nil {
		t.Errorf("clearing a missing cache should succeed: %v", err)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return n
}
