// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadReadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "tavily-api-key", "tk-123\n")
	writeSecret(t, dir, "serper-api-key", "  sk-456  ")

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s["tavily-api-key"] != "tk-123" {
		t.Errorf("tavily-api-key = %q, want trimmed value", s["tavily-api-key"])
	}
	if s["serper-api-key"] != "sk-456" {
		t.Errorf("serper-api-key = %q, want trimmed value", s["serper-api-key"])
	}
}

func TestLoadSkipsDotfilesAndEmpty(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, ".gitignore", "*")
	writeSecret(t, dir, "jina-api-key", "   \n")

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s[".gitignore"]; ok {
		t.Error("dotfile loaded as a secret")
	}
	if _, ok := s["jina-api-key"]; ok {
		t.Error("blank secret loaded")
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	for _, key := range knownKeys {
		t.Setenv(envName(key), "")
	}

	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s) != 0 {
		t.Errorf("secrets = %v, want none", s)
	}
}

func TestLoadEnvironmentOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "openai-api-key", "from-file")
	t.Setenv("OPENAI_API_KEY", "from-env")

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s["openai-api-key"] != "from-env" {
		t.Errorf("openai-api-key = %q, want environment value", s["openai-api-key"])
	}
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tavily-api-key", "TAVILY_API_KEY"},
		{"azure-endpoint", "AZURE_ENDPOINT"},
	}
	for _, tt := range tests {
		if got := envName(tt.in); got != tt.want {
			t.Errorf("envName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetPrecedence(t *testing.T) {
	s := map[string]string{"gemini-api-key": "stored"}

	if got := Get(s, "gemini-api-key", "flag-value"); got != "flag-value" {
		t.Errorf("Get() = %q, want the explicit fallback preferred", got)
	}
	if got := Get(s, "gemini-api-key", ""); got != "stored" {
		t.Errorf("Get() = %q, want stored value", got)
	}
	if got := Get(s, "unknown-key", ""); got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
}
