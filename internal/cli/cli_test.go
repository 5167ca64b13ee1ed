package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"scan", "translate", "render", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug message should be filtered at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug message should pass at debug level")
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestReadInputFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.md")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput() error: %v", err)
	}
	if got != "hello" {
		t.Errorf("readInput() = %q", got)
	}
}

func TestReadInputMissingFile(t *testing.T) {
	if _, err := readInput(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("readInput() expected error")
	}
}

func TestWriteOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.d2")
	if err := writeOutput(path, []byte("x: \"X\"\n")); err != nil {
		t.Fatalf("writeOutput() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x: \"X\"\n" {
		t.Errorf("written = %q", data)
	}
}

func TestNewCacheFallsBackToNull(t *testing.T) {
	// noCache always yields a usable cache
	c := newCache(true)
	if c == nil {
		t.Fatal("newCache(true) returned nil")
	}
	c.Close()
}
