// Package integrate merges externally-produced per-gene annotation
// tables onto extracted flanking matches.
package integrate

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/metaflank/flankscope/internal/fasta"
)

// tsvTable is a header-indexed view over a tab-separated file.
type tsvTable struct {
	cols map[string]int
	rows [][]string
}

// readTSV loads a tab-separated table with a header line. Gzipped
// input is handled transparently.
func readTSV(path string) (*tsvTable, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header of %s: %w", path, err)
		}
		return nil, fmt.Errorf("table %s is empty", path)
	}
	header := strings.Split(scanner.Text(), "\t")
	t := &tsvTable{cols: make(map[string]int, len(header))}
	for i, name := range header {
		t.cols[strings.TrimSpace(name)] = i
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		t.rows = append(t.rows, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan table %s: %w", path, err)
	}
	return t, nil
}

// get returns the named cell of a row, or "" when the column is absent
// or the row is short.
func (t *tsvTable) get(row []string, col string) string {
	idx, ok := t.cols[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// require verifies that all named columns exist.
func (t *tsvTable) require(path string, names ...string) error {
	for _, name := range names {
		if _, ok := t.cols[name]; !ok {
			return fmt.Errorf("table %s missing required column %q", path, name)
		}
	}
	return nil
}
