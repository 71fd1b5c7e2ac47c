package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir switches to dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(original) })
}

func TestGetVersionFromEnvironment(t *testing.T) {
	t.Setenv("APP_VERSION", " 2.0.0-beta.1 ")

	if got := GetVersion(); got != "2.0.0-beta.1" {
		t.Errorf("Expected '2.0.0-beta.1', got '%s'", got)
	}
}

func TestGetVersionFromFile(t *testing.T) {
	t.Setenv("APP_VERSION", "")

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "VERSION"), []byte("1.5.0\n"), 0644); err != nil {
		t.Fatalf("Failed to create VERSION file: %v", err)
	}
	sub := filepath.Join(root, "internal", "config")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
	}{
		{name: "same directory", dir: root},
		{name: "two levels down", dir: sub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, tt.dir)
			if got := GetVersion(); got != "1.5.0" {
				t.Errorf("Expected '1.5.0', got '%s'", got)
			}
		})
	}
}

func TestGetVersionFallback(t *testing.T) {
	t.Setenv("APP_VERSION", "")
	chdir(t, t.TempDir())

	if got := readVersionFile(); got != "" {
		t.Errorf("Expected no VERSION file, got '%s'", got)
	}
	if got := GetVersion(); got == "" {
		t.Error("Version should not be empty")
	}
}
