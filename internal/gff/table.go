// Package gff parses GFF-style gene-call annotation tables and caches
// them for shared use across concurrent resolver calls.
package gff

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/metaflank/flankscope/internal/fasta"
)

// Row is one gene call from an annotation table.
type Row struct {
	Genome      string
	Start       int
	End         int
	Strand      int // +1 or -1
	Description string
	LocusTag    string
}

// Table is a parsed annotation table. Rows keep file order; byLocusTag
// indexes the first row carrying each locus tag.
type Table struct {
	rows       []Row
	byLocusTag map[string]int
}

var locusTagPattern = regexp.MustCompile(`locus_tag=([^;]+)`)

// ParseTable reads a 9-column tab-separated GFF-like annotation table.
// Lines starting with '#' are comments. Only columns 0 (genome id),
// 3 (start), 4 (end), 6 (strand) and 8 (description) are consumed; the
// locus tag is extracted from the description's locus_tag=...; token.
// Genome id strings are interned so that a table with millions of rows
// over a handful of contigs does not hold millions of copies.
func ParseTable(path string) (*Table, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation table: %w", err)
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	t := &Table{byLocusTag: make(map[string]int)}
	genomes := make(map[string]string) // interning pool

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			return nil, fmt.Errorf("annotation table %s line %d: expected 9 columns, got %d", path, lineNum, len(fields))
		}
		start, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("annotation table %s line %d: bad start %q", path, lineNum, fields[3])
		}
		end, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("annotation table %s line %d: bad end %q", path, lineNum, fields[4])
		}
		strand := -1
		if fields[6] == "+" {
			strand = 1
		}

		genome, ok := genomes[fields[0]]
		if !ok {
			genome = fields[0]
			genomes[genome] = genome
		}

		row := Row{
			Genome:      genome,
			Start:       start,
			End:         end,
			Strand:      strand,
			Description: fields[8],
		}
		if m := locusTagPattern.FindStringSubmatch(fields[8]); m != nil {
			row.LocusTag = m[1]
		}

		idx := len(t.rows)
		t.rows = append(t.rows, row)
		if row.LocusTag != "" {
			if _, exists := t.byLocusTag[row.LocusTag]; !exists {
				t.byLocusTag[row.LocusTag] = idx
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan annotation table %s: %w", path, err)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns all rows in file order. Callers must treat the slice as
// read-only; tables are shared across goroutines once cached.
func (t *Table) Rows() []Row {
	return t.rows
}

// LookupLocusTag returns the first row carrying the given locus tag.
func (t *Table) LookupLocusTag(tag string) (Row, bool) {
	idx, ok := t.byLocusTag[tag]
	if !ok {
		return Row{}, false
	}
	return t.rows[idx], true
}

// GenomeOf returns the genome id for a locus tag, or "" if unknown.
func (t *Table) GenomeOf(tag string) string {
	row, ok := t.LookupLocusTag(tag)
	if !ok {
		return ""
	}
	return row.Genome
}
