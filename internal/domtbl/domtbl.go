// Package domtbl parses hmmsearch --domtblout output and merges whole
// directory trees of per-archive result files into one table.
package domtbl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// fixedFieldCount is the number of whitespace-delimited columns before
// the free-text description in a domtblout row.
const fixedFieldCount = 22

// Columns of the merged table, in output order. The trailing
// target_file column records which result file each row came from.
var Columns = []string{
	"target_name", "target_accession", "tlen",
	"query_name", "query_accession", "qlen",
	"full_seq_Evalue", "full_seq_score", "full_seq_bias",
	"domain_num", "domain_of", "c_Evalue", "i_Evalue",
	"domain_score", "domain_bias",
	"hmm_from", "hmm_to", "ali_from", "ali_to", "env_from", "env_to",
	"acc", "description", "target_file",
}

// Row is one parsed domtblout hit: the 22 fixed fields, the
// description, and the source file's basename.
type Row struct {
	Fields      [fixedFieldCount]string
	Description string
	TargetFile  string
}

// Parse reads one domtblout file. '#'-prefixed lines are comments;
// lines with fewer than 22 fields are skipped rather than failing the
// whole file.
func Parse(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open domtblout: %w", err)
	}
	defer f.Close()

	base := filepath.Base(path)
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	var rows []Row
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < fixedFieldCount {
			continue
		}
		var row Row
		copy(row.Fields[:], parts[:fixedFieldCount])
		row.Description = strings.Join(parts[fixedFieldCount:], " ")
		row.TargetFile = base
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan domtblout %s: %w", path, err)
	}
	return rows, nil
}

// Merger merges directory trees of domtblout files in parallel.
type Merger struct {
	workers int
	logger  *zap.Logger
}

// NewMerger creates a merger; workers <= 0 means runtime.NumCPU().
func NewMerger(workers int) *Merger {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Merger{workers: workers, logger: zap.NewNop()}
}

// SetLogger sets the logger for per-file failure messages.
func (m *Merger) SetLogger(l *zap.Logger) {
	m.logger = l
}

// MergeDir walks root for .domtblout files, parses them across the
// worker pool, and returns all rows grouped by file in walk order. A
// file that fails to parse is logged and dropped; siblings continue.
func (m *Merger) MergeDir(root string) ([]Row, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".domtblout") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	type result struct {
		seq  int
		rows []Row
		err  error
	}

	items := make(chan int, len(paths))
	results := make(chan result, len(paths))

	var wg sync.WaitGroup
	wg.Add(m.workers)
	for range m.workers {
		go func() {
			defer wg.Done()
			for seq := range items {
				rows, err := Parse(paths[seq])
				results <- result{seq: seq, rows: rows, err: err}
			}
		}()
	}

	for i := range paths {
		items <- i
	}
	close(items)

	go func() {
		wg.Wait()
		close(results)
	}()

	perFile := make([][]Row, len(paths))
	for r := range results {
		if r.err != nil {
			m.logger.Warn("domtblout parse failed",
				zap.String("path", paths[r.seq]),
				zap.Error(r.err))
			continue
		}
		perFile[r.seq] = r.rows
	}

	var merged []Row
	for _, rows := range perFile {
		merged = append(merged, rows...)
	}
	return merged, nil
}

// WriteTable writes merged rows as TSV with the standard column set.
func WriteTable(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, strings.Join(Columns, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, 0, len(Columns))
		cells = append(cells, row.Fields[:]...)
		cells = append(cells, row.Description, row.TargetFile)
		if _, err := fmt.Fprintln(bw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
