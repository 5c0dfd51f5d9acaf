package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Manifest is the package-manager descriptor embedded at the output archive
// root. Only name and version are interpreted, to derive the package root
// directory; the raw bytes pass through to the output untouched.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Raw     []byte `json:"-"`
}

// ReadManifest loads and minimally validates the manifest document at path.
func ReadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, &ManifestError{Path: path, Err: err}
	}
	return ParseManifest(raw, path)
}

// ParseManifest validates raw manifest bytes. The source name is only used in
// error messages.
func ParseManifest(raw []byte, source string) (Manifest, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Manifest{}, &ManifestError{Path: source, Err: errors.New("manifest is empty")}
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, &ManifestError{Path: source, Err: fmt.Errorf("parse manifest: %w", err)}
	}
	if m.Name == "" {
		return Manifest{}, &ManifestError{Path: source, Err: errors.New(`missing required key "name"`)}
	}
	if m.Version == "" {
		return Manifest{}, &ManifestError{Path: source, Err: errors.New(`missing required key "version"`)}
	}

	m.Raw = raw
	return m, nil
}

// RootDir returns the top-level folder name all converted files are placed
// under, in the package manager's name@version form.
func (m Manifest) RootDir() string {
	return m.Name + "@" + m.Version
}
