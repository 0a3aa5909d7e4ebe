package pact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Common errors for pact file loading.
var (
	ErrFileNotFound     = errors.New("pact file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrEmptyFile        = errors.New("pact file is empty")
	ErrNoInteractions   = errors.New("pact contains no interactions")
)

// DefaultExtension is the file extension used when scanning directories.
const DefaultExtension = "json"

// LoadFile reads a single pact contract file.
func LoadFile(path string) (*Pact, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	pact, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pact, nil
}

// LoadDir reads every pact file with the given extension from a directory.
// Files are loaded in lexical order so interaction load order is stable
// across runs. An empty ext defaults to "json".
func LoadDir(dir, ext string) ([]*Pact, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	ext = "." + strings.TrimPrefix(ext, ".")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	pacts := make([]*Pact, 0, len(names))
	for _, name := range names {
		pact, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		pacts = append(pacts, pact)
	}
	return pacts, nil
}

// LoadURL fetches a pact contract over HTTP(S).
func LoadURL(rawURL string, client *http.Client) (*Pact, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", rawURL, err)
	}

	pact, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}
	return pact, nil
}

// Parse decodes pact JSON bytes into a Pact.
func Parse(data []byte) (*Pact, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	var pact Pact
	if err := json.Unmarshal(data, &pact); err != nil {
		return nil, fmt.Errorf("failed to parse pact: %w", err)
	}
	if len(pact.Interactions) == 0 {
		return nil, ErrNoInteractions
	}
	return &pact, nil
}
