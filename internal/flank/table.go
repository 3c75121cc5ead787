package flank

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/metaflank/flankscope/internal/window"
)

// ColFlankingSegments is the result column holding the JSON-encoded
// match tuples.
const ColFlankingSegments = "flanking_segments"

var resultColumns = []string{
	ColTargetName, ColTargetFile, ColSource,
	ColProtStart, ColProtEnd, ColStrand,
	ColFlankingSegments,
}

// WriteTable writes results as a tab-separated table, one row per input
// row in input order. Skipped and failed rows carry an empty segment
// list; the table always has the same cardinality as the input.
func WriteTable(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, strings.Join(resultColumns, "\t")); err != nil {
		return err
	}
	for _, res := range results {
		segments := "[]"
		if res.Err == nil && res.Skip == "" {
			enc, err := window.EncodeSegments(res.Matches)
			if err != nil {
				return fmt.Errorf("encode segments for %s: %w", res.Target.Name, err)
			}
			segments = enc
		}
		t := res.Target
		_, err := fmt.Fprintf(bw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			t.Name, t.File, t.Source, t.ProtStart, t.ProtEnd, t.Strand, segments)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTableFile writes the result table to path, creating parent
// directories as needed.
func WriteTableFile(path string, results []Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create table directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result table: %w", err)
	}
	if err := WriteTable(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
