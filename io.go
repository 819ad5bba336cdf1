// File: lixenwraith/typedconf/io.go
package typedconf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FormatFromPath picks an output format from the file extension.
// Unknown extensions render as text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatText
}

// Save renders the typed configuration in the given format and atomically
// replaces the file at path. An empty format is derived from the extension.
func (tc *TypedConfig) Save(path string, format Format) error {
	if format == "" {
		format = FormatFromPath(path)
	}

	var buf bytes.Buffer
	if err := tc.Dump(&buf, format); err != nil {
		return err
	}

	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile writes data to a temporary file next to path and renames
// it into place, so readers never observe a partial file.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in '%s': %w", dir, err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file '%s': %w", tempPath, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file '%s': %w", tempPath, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file '%s': %w", tempPath, err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on '%s': %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename '%s' to '%s': %w", tempPath, path, err)
	}

	return nil
}
