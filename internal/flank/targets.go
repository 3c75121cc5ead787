// Package flank drives the per-target neighbor extraction pipeline:
// one independent unit of work per summary row, fanned out across a
// worker pool.
package flank

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/metaflank/flankscope/internal/fasta"
)

// Required summary table columns.
const (
	ColTargetName = "target_name"
	ColTargetFile = "target_file"
	ColSource     = "source"
	ColProtStart  = "prot_start"
	ColProtEnd    = "prot_end"
	ColStrand     = "strand"
)

// Target is one row of the input summary table. ProtStart and ProtEnd
// are as given, possibly unordered; use Interval for the normalized
// coordinates.
type Target struct {
	Name      string
	File      string
	Source    string
	ProtStart int
	ProtEnd   int
	Strand    string
}

// Interval returns the target's coordinates with start <= end.
func (t Target) Interval() (start, end int) {
	if t.ProtStart <= t.ProtEnd {
		return t.ProtStart, t.ProtEnd
	}
	return t.ProtEnd, t.ProtStart
}

// ArchiveBase returns the sequence-archive base name: the target file
// stripped of the trailing domain-search-tool suffix.
func (t Target) ArchiveBase() string {
	if idx := strings.Index(t.File, ".domtblout"); idx != -1 {
		return t.File[:idx]
	}
	return t.File
}

// parseCoord accepts integer coordinates, tolerating the float
// rendering some table writers use for integer columns.
func parseCoord(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// ReadTargets parses the tab-separated summary table from r. The header
// line must carry all required columns; extra columns are ignored.
func ReadTargets(r io.Reader) ([]Target, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read summary header: %w", err)
		}
		return nil, fmt.Errorf("summary table is empty")
	}
	header := strings.Split(scanner.Text(), "\t")
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColTargetName, ColTargetFile, ColSource, ColProtStart, ColProtEnd, ColStrand} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("summary table missing required column %q", required)
		}
	}

	var targets []Target
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		get := func(name string) string {
			idx := cols[name]
			if idx >= len(fields) {
				return ""
			}
			return fields[idx]
		}
		start, err := parseCoord(get(ColProtStart))
		if err != nil {
			return nil, fmt.Errorf("summary line %d: bad prot_start %q", lineNum, get(ColProtStart))
		}
		end, err := parseCoord(get(ColProtEnd))
		if err != nil {
			return nil, fmt.Errorf("summary line %d: bad prot_end %q", lineNum, get(ColProtEnd))
		}
		targets = append(targets, Target{
			Name:      get(ColTargetName),
			File:      get(ColTargetFile),
			Source:    get(ColSource),
			ProtStart: start,
			ProtEnd:   end,
			Strand:    get(ColStrand),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan summary table: %w", err)
	}
	return targets, nil
}

// ReadTargetsFile reads the summary table from a path, gzipped or plain.
func ReadTargetsFile(path string) ([]Target, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open summary table: %w", err)
	}
	defer rc.Close()
	return ReadTargets(rc)
}
