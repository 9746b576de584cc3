// Package dataset persists one CSV table of articles per symbol.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSuffix ends every per-symbol table name.
const FileSuffix = "_news_data.csv"

var (
	// ErrInvalidFileName rejects names that are not plain table files.
	ErrInvalidFileName = errors.New("invalid dataset file name")

	// ErrNotFound is returned when a table does not exist.
	ErrNotFound = errors.New("dataset not found")

	// ErrInvalidSymbol rejects symbols that cannot name a table file.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Store manages the output directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is not touched
// until Ensure is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Ensure creates the output directory if it is absent.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return nil
}

// Reset deletes the output directory with every table and recreates it empty.
func (s *Store) Reset() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove output directory: %w", err)
	}

	return s.Ensure()
}

// FileName returns the table name for symbol.
func FileName(symbol string) string {
	return strings.ToLower(symbol) + FileSuffix
}

// ValidateSymbol reports whether symbol can be stored as a table. Path
// separators and parent references are refused.
func ValidateSymbol(symbol string) error {
	if symbol == "" || strings.ContainsAny(symbol, `/\`) || strings.Contains(symbol, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}

	return nil
}

// SymbolFromFile returns the symbol part of a table name.
func SymbolFromFile(name string) (string, bool) {
	if !strings.HasSuffix(name, FileSuffix) {
		return "", false
	}

	symbol := strings.TrimSuffix(name, FileSuffix)

	return symbol, symbol != ""
}

// Files lists the table names in the output directory, sorted.
func (s *Store) Files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("failed to list output directory: %w", err)
	}

	files := []string{}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if _, ok := SymbolFromFile(e.Name()); ok {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files)

	return files, nil
}

// Symbols lists the symbols that have a table, in file name order.
func (s *Store) Symbols() ([]string, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(files))
	for _, f := range files {
		symbol, _ := SymbolFromFile(f)
		symbols = append(symbols, symbol)
	}

	return symbols, nil
}

// Path resolves a table name inside the output directory. Only plain
// table names are accepted.
func (s *Store) Path(name string) (string, error) {
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}

	if _, ok := SymbolFromFile(name); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		return "", err
	}

	return path, nil
}
