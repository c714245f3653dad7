// Package cache keeps translation records in a sorted, deduplicated flat file.
//
// The store is rewritten on every merge through a temporary file and a
// rename. There is no locking: two processes merging at the same time can
// lose one of the updates.
package cache

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/at-ishikawa/dictcc/internal/dictionary"
	"github.com/spf13/afero"
)

// FatalInitError reports that the store file could not be created.
type FatalInitError struct {
	Path string
	Err  error
}

func (e *FatalInitError) Error() string {
	return fmt.Sprintf("create cache store %s: %v", e.Path, e.Err)
}

func (e *FatalInitError) Unwrap() error {
	return e.Err
}

// IOError reports a failed read or write of an existing store.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s cache store %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{
		fs:   fs,
		path: path,
	}
}

// EnsureExists creates an empty store file, and its directory, if it is absent.
func (s *Store) EnsureExists() error {
	if _, err := s.fs.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return &FatalInitError{Path: s.path, Err: fmt.Errorf("fs.Stat > %w", err)}
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &FatalInitError{Path: s.path, Err: fmt.Errorf("fs.MkdirAll > %w", err)}
	}
	file, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &FatalInitError{Path: s.path, Err: fmt.Errorf("fs.OpenFile > %w", err)}
	}
	if err := file.Close(); err != nil {
		return &FatalInitError{Path: s.path, Err: fmt.Errorf("file.Close > %w", err)}
	}
	return nil
}

// Query returns the lines matching pattern in file order.
func (s *Store) Query(pattern *regexp.Regexp) ([]string, error) {
	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}

	matches := make([]string, 0)
	for _, line := range lines {
		if pattern.MatchString(line) {
			matches = append(matches, line)
		}
	}
	return matches, nil
}

// QueryTerm matches term case-insensitively against whole lines.
// A term that is not a valid regular expression is matched literally.
func (s *Store) QueryTerm(term string) ([]string, error) {
	return s.Query(TermPattern(term))
}

// TermPattern compiles term into a case-insensitive pattern.
func TermPattern(term string) *regexp.Regexp {
	pattern, err := regexp.Compile("(?i)" + term)
	if err != nil {
		return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	}
	return pattern
}

// Records returns every stored line as a record.
func (s *Store) Records() ([]dictionary.Record, error) {
	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}
	records := make([]dictionary.Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, dictionary.ParseRecord(line))
	}
	return records, nil
}

// Merge adds records to the store. The result is deduplicated by exact line
// and sorted lexicographically, then written over the old file with a rename.
func (s *Store) Merge(records []dictionary.Record) error {
	lines, err := s.readLines()
	if err != nil {
		return err
	}
	for _, record := range records {
		if record.IsEmpty() {
			continue
		}
		lines = append(lines, record.Line())
	}
	slices.Sort(lines)
	lines = slices.Compact(lines)

	return s.writeLines(lines)
}

func (s *Store) readLines() ([]string, error) {
	file, err := s.fs.Open(s.path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: fmt.Errorf("fs.Open > %w", err)}
	}
	defer func() {
		_ = file.Close()
	}()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: fmt.Errorf("scanner.Scan > %w", err)}
	}
	return lines, nil
}

func (s *Store) writeLines(lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, buf.Bytes(), 0644); err != nil {
		_ = s.fs.Remove(tmpPath)
		return &IOError{Op: "write", Path: s.path, Err: fmt.Errorf("afero.WriteFile > %w", err)}
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return &IOError{Op: "write", Path: s.path, Err: fmt.Errorf("fs.Rename > %w", err)}
	}
	return nil
}
