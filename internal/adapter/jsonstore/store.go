// Package jsonstore persists post batches and incident batches as JSON array
// files on local disk.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/incident-feed-etl/internal/domain"
)

// indent is four spaces, matching the human-readable output contract.
const indent = "    "

// Store reads raw batches from rawDir and writes processed batches to
// processedDir. A processed batch keeps its raw batch's filename, so the
// presence of the counterpart file marks a batch as done.
type Store struct {
	rawDir       string
	processedDir string
}

// New creates a Store over the given directories.
func New(rawDir, processedDir string) *Store {
	return &Store{rawDir: rawDir, processedDir: processedDir}
}

// ListUnprocessed returns the names of raw batch files with no processed
// counterpart, sorted for deterministic processing order.
func (s *Store) ListUnprocessed() ([]string, error) {
	entries, err := os.ReadDir(s.rawDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list raw dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.processedDir, e.Name())); err == nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ReadRawPosts decodes a raw batch file into its posts.
func (s *Store) ReadRawPosts(name string) ([]domain.RawPost, error) {
	data, err := os.ReadFile(filepath.Join(s.rawDir, name))
	if err != nil {
		return nil, fmt.Errorf("read raw batch: %w", err)
	}

	var posts []domain.RawPost
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("decode raw batch %s: %w", name, err)
	}
	return posts, nil
}

// WriteIncidents writes a processed batch, creating the processed directory
// if absent. The batch is marshaled in full before the file is opened, so a
// failed batch leaves no partial output behind.
func (s *Store) WriteIncidents(name string, incidents []domain.StandardizedIncident) error {
	if incidents == nil {
		incidents = []domain.StandardizedIncident{}
	}
	data, err := json.MarshalIndent(incidents, "", indent)
	if err != nil {
		return fmt.Errorf("encode processed batch: %w", err)
	}

	if err := os.MkdirAll(s.processedDir, 0o755); err != nil {
		return fmt.Errorf("create processed dir: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.processedDir, name), data); err != nil {
		return fmt.Errorf("write processed batch: %w", err)
	}
	return nil
}

// WriteRawPosts writes a raw batch on behalf of the collector, creating the
// raw directory if absent.
func (s *Store) WriteRawPosts(name string, posts []domain.RawPost) error {
	if posts == nil {
		posts = []domain.RawPost{}
	}
	data, err := json.MarshalIndent(posts, "", indent)
	if err != nil {
		return fmt.Errorf("encode raw batch: %w", err)
	}

	if err := os.MkdirAll(s.rawDir, 0o755); err != nil {
		return fmt.Errorf("create raw dir: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.rawDir, name), data); err != nil {
		return fmt.Errorf("write raw batch: %w", err)
	}
	return nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over path. An interrupted write leaves only the temp file behind, never
// a truncated batch at path, so the batch stays visible as unprocessed.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
