// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files, with
// environment variables taking precedence. Each file in the directory is one
// secret: the filename is the key name and the trimmed contents the value.
//
// Supported key files: tavily-api-key, serper-api-key, jina-api-key,
// openai-api-key, typhoon-api-key, gemini-api-key, azure-api-key,
// azure-endpoint.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// knownKeys lists the secret names with environment variable overrides.
var knownKeys = []string{
	"tavily-api-key", "serper-api-key", "jina-api-key",
	"openai-api-key", "typhoon-api-key", "gemini-api-key",
	"azure-api-key", "azure-endpoint",
}

// envName converts a secret key name to its environment variable form:
// "tavily-api-key" becomes "TAVILY_API_KEY".
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents, then overlays any matching environment variables. A missing
// directory is not an error; unreadable files produce a warning on stderr
// but do not abort.
func Load(dir string) (map[string]string, error) {
	secrets := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[entry.Name()] = value
		}
	}

	// Environment variables override file contents.
	for _, key := range knownKeys {
		if v := os.Getenv(envName(key)); v != "" {
			secrets[key] = v
		}
	}

	return secrets, nil
}

// Get returns the secret for key, preferring an explicitly supplied
// fallback (e.g. a command-line flag) over the loaded value.
func Get(secrets map[string]string, key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return secrets[key]
}
