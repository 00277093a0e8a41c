// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: s3-access-key, s3-secret-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Key file names.
const (
	S3AccessKey = "s3-access-key"
	S3SecretKey = "s3-secret-key"
)

// envFallback maps a key file name to the environment variable consulted
// when the file is absent.
var envFallback = map[string]string{
	S3AccessKey: "PDF2JPG_S3_ACCESS_KEY",
	S3SecretKey: "PDF2JPG_S3_SECRET_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Lookup returns the secret named key, falling back to its environment
// variable. The second result is false when neither source has a value.
func Lookup(secrets map[string]string, key string) (string, bool) {
	if v, ok := secrets[key]; ok && v != "" {
		return v, true
	}
	if env, ok := envFallback[key]; ok {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, true
		}
	}
	return "", false
}

// S3Credentials returns the access and secret keys, or an error naming the
// first one that is missing.
func S3Credentials(secrets map[string]string) (access, secret string, err error) {
	access, ok := Lookup(secrets, S3AccessKey)
	if !ok {
		return "", "", fmt.Errorf("missing %s (file or %s)", S3AccessKey, envFallback[S3AccessKey])
	}
	secret, ok = Lookup(secrets, S3SecretKey)
	if !ok {
		return "", "", fmt.Errorf("missing %s (file or %s)", S3SecretKey, envFallback[S3SecretKey])
	}
	return access, secret, nil
}
