package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadSymbols reads a newline-delimited symbol list. Entries are trimmed and
// blank lines skipped.
func ReadSymbols(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol list: %w", err)
	}
	defer f.Close()

	var symbols []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			symbols = append(symbols, s)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read symbol list: %w", err)
	}

	return symbols, nil
}
