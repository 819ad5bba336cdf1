// FILE: lixenwraith/typedconf/loader.go
package typedconf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize bounds how much of a configuration file is read
const DefaultMaxFileSize int64 = 10 << 20

// LoaderOptions configures how INI sources are read
type LoaderOptions struct {
	// CommentPrefixes mark full-line comments
	// Default: ";" and "#"
	CommentPrefixes []string

	// Delimiters separate keys from values; the earliest in a line wins
	// Default: "=" and ":"
	Delimiters []string

	// DefaultSection receives keys that appear before any section header
	DefaultSection string

	// CaseSensitive keeps keys and section names as written instead of lowercasing
	CaseSensitive bool

	// InlineComments strips comment prefixes preceded by whitespace
	InlineComments bool

	// MaxFileSize rejects larger files (0 = unlimited)
	MaxFileSize int64

	// PreventPathTraversal rejects relative paths escaping the working directory
	PreventPathTraversal bool
}

// DefaultLoaderOptions returns the standard loader options
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		CommentPrefixes: []string{";", "#"},
		Delimiters:      []string{"=", ":"},
		DefaultSection:  "default",
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// LoadFile reads and parses an INI file.
// A missing file yields an error matching ErrConfigNotFound.
func LoadFile(path string, opts LoaderOptions) (*RawConfig, error) {
	if opts.PreventPathTraversal {
		cleanPath := filepath.Clean(path)
		if !filepath.IsAbs(path) &&
			(cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator))) {
			return nil, fmt.Errorf("%w: %s", ErrPathTraversal, path)
		}
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("config path '%s' is a directory", path)
	}
	if opts.MaxFileSize > 0 && fileInfo.Size() > opts.MaxFileSize {
		return nil, fmt.Errorf("%w: '%s' exceeds %d bytes", ErrFileTooLarge, path, opts.MaxFileSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer file.Close()

	// The file may grow between Stat and Open
	var reader io.Reader = file
	if opts.MaxFileSize > 0 {
		reader = io.LimitReader(file, opts.MaxFileSize)
	}

	raw, err := parse(reader, path, opts)
	if err != nil {
		var syntaxErr *SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return raw, nil
}

// Parse reads INI data from r.
func Parse(r io.Reader, opts LoaderOptions) (*RawConfig, error) {
	return parse(r, "", opts)
}

func parse(r io.Reader, path string, opts LoaderOptions) (*RawConfig, error) {
	raw := NewRawConfig()
	fold := func(s string) string {
		if opts.CaseSensitive {
			return s
		}
		return strings.ToLower(s)
	}

	defaultSection := opts.DefaultSection
	if defaultSection == "" {
		defaultSection = "default"
	}
	section := fold(defaultSection)

	scanner := bufio.NewScanner(r)
	// Allow long values; bufio's default token limit is 64KiB
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		line := strings.TrimSpace(text)

		if line == "" || hasAnyPrefix(line, opts.CommentPrefixes) {
			continue
		}
		if opts.InlineComments {
			line = cutComment(line, opts.CommentPrefixes)
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, &SyntaxError{Path: path, Line: lineNo, Text: line, Msg: "unclosed section header"}
			}
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				return nil, &SyntaxError{Path: path, Line: lineNo, Text: line, Msg: "empty section name"}
			}
			section = fold(name)
			raw.Section(section)
			continue
		}

		key, value, found := splitDelimiter(line, opts.Delimiters)
		key = fold(strings.TrimSpace(key))
		if key == "" {
			return nil, &SyntaxError{Path: path, Line: lineNo, Text: line, Msg: "empty key"}
		}

		value = strings.TrimSpace(value)
		if !found || value == "" {
			raw.Section(section).SetEmpty(key)
		} else {
			raw.Section(section).SetValue(key, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return raw, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
