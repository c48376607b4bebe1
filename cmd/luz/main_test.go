package main

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestResolvePath(t *testing.T) {
	t.Run("explicit path passes through", func(t *testing.T) {
		if got := resolvePath("script.luz"); got != "script.luz" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("dot without manifest falls back to main.luz", func(t *testing.T) {
		chdir(t, t.TempDir())
		if got := resolvePath("."); got != "main.luz" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("dot follows the manifest entry point", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "luz.yaml"), []byte("main: app.luz\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		chdir(t, dir)
		if got := resolvePath("."); got != "app.luz" {
			t.Errorf("got %q", got)
		}
	})
}

func TestLoadManifest(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		chdir(t, t.TempDir())
		if _, ok := loadManifest(); ok {
			t.Error("loadManifest succeeded without luz.yaml")
		}
	})

	t.Run("debug flag parses", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "luz.yaml"), []byte("main: app.luz\ndebug: true\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		chdir(t, dir)
		m, ok := loadManifest()
		if !ok || m.Main != "app.luz" || !m.Debug {
			t.Errorf("got %+v, %v", m, ok)
		}
	})

	t.Run("malformed yaml is ignored", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "luz.yaml"), []byte(":\t["), 0o644); err != nil {
			t.Fatal(err)
		}
		chdir(t, dir)
		if _, ok := loadManifest(); ok {
			t.Error("loadManifest accepted malformed yaml")
		}
	})
}

func TestDebugEnabled(t *testing.T) {
	chdir(t, t.TempDir())

	t.Run("environment switch", func(t *testing.T) {
		t.Setenv("LUZ_DEBUG", "true")
		if !debugEnabled(rootCmd) {
			t.Error("LUZ_DEBUG=true not honoured")
		}
	})

	t.Run("off by default", func(t *testing.T) {
		t.Setenv("LUZ_DEBUG", "")
		if debugEnabled(rootCmd) {
			t.Error("debug enabled with no switch set")
		}
	})

	t.Run("manifest default", func(t *testing.T) {
		t.Setenv("LUZ_DEBUG", "")
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "luz.yaml"), []byte("debug: true\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		chdir(t, dir)
		if !debugEnabled(rootCmd) {
			t.Error("manifest debug not honoured")
		}
	})
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("LUZ_TEST_KEY", "set")
	if got := envOrDefault("LUZ_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("got %q", got)
	}
	if got := envOrDefault("LUZ_TEST_KEY_UNSET", "fallback"); got != "fallback" {
		t.Errorf("got %q", got)
	}
}
