package integrate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/metaflank/flankscope/internal/flank"
	"github.com/metaflank/flankscope/internal/window"
)

// SegmentRow is one row of the extract output table together with its
// decoded flanking segments.
type SegmentRow struct {
	TargetName string
	TargetFile string
	Source     string
	ProtStart  int
	ProtEnd    int
	Segments   []window.Match
}

// ReadSegmentRows parses an extract result table. Malformed or empty
// flanking_segments cells decode to an empty segment list; the row is
// kept so cardinality checks against the input remain possible.
func ReadSegmentRows(path string) ([]SegmentRow, error) {
	t, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(path, flank.ColTargetName, flank.ColProtStart, flank.ColProtEnd, flank.ColFlankingSegments); err != nil {
		return nil, err
	}

	rows := make([]SegmentRow, 0, len(t.rows))
	for i, row := range t.rows {
		start, err := strconv.Atoi(t.get(row, flank.ColProtStart))
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: bad prot_start %q", path, i+1, t.get(row, flank.ColProtStart))
		}
		end, err := strconv.Atoi(t.get(row, flank.ColProtEnd))
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: bad prot_end %q", path, i+1, t.get(row, flank.ColProtEnd))
		}
		rows = append(rows, SegmentRow{
			TargetName: t.get(row, flank.ColTargetName),
			TargetFile: t.get(row, flank.ColTargetFile),
			Source:     t.get(row, flank.ColSource),
			ProtStart:  start,
			ProtEnd:    end,
			Segments:   window.DecodeSegments(t.get(row, flank.ColFlankingSegments)),
		})
	}
	return rows, nil
}

// JoinedRow is one flanking match extended with its relative distance
// and any external annotation. External fields are empty strings when
// the match has no annotation; the row is never dropped.
type JoinedRow struct {
	TargetName     string
	TargetFile     string
	Source         string
	ProtStart      int
	ProtEnd        int
	FlankingID     string
	FlankingStart  int
	FlankingEnd    int
	FlankingStrand int
	RelativeDist   int
	Domain         DomainAnnotation
	Ortholog       OrthologAnnotation
}

// RelativeDistance classifies a match against the target interval:
// 0 when the intervals overlap, matchEnd-targetStart (negative) when
// the match lies fully upstream, matchStart-targetEnd when fully
// downstream.
func RelativeDistance(targetStart, targetEnd, matchStart, matchEnd int) int {
	if matchEnd < targetStart {
		return matchEnd - targetStart
	}
	if matchStart > targetEnd {
		return matchStart - targetEnd
	}
	return 0
}

// Join expands segment rows into one output row per match, computes
// relative distances and left-joins the external annotation maps by
// exact gene-id equality. The output has exactly one row per segment.
func Join(rows []SegmentRow, domains map[string]DomainAnnotation, orthologs map[string]OrthologAnnotation) []JoinedRow {
	var out []JoinedRow
	for _, row := range rows {
		targetStart, targetEnd := row.ProtStart, row.ProtEnd
		if targetStart > targetEnd {
			targetStart, targetEnd = targetEnd, targetStart
		}
		for _, seg := range row.Segments {
			j := JoinedRow{
				TargetName:     row.TargetName,
				TargetFile:     row.TargetFile,
				Source:         row.Source,
				ProtStart:      row.ProtStart,
				ProtEnd:        row.ProtEnd,
				FlankingID:     seg.ID,
				FlankingStart:  seg.Start,
				FlankingEnd:    seg.End,
				FlankingStrand: seg.Strand,
				RelativeDist:   RelativeDistance(targetStart, targetEnd, seg.Start, seg.End),
			}
			if d, ok := domains[seg.ID]; ok {
				j.Domain = d
			}
			if o, ok := orthologs[seg.ID]; ok {
				j.Ortholog = o
			}
			out = append(out, j)
		}
	}
	return out
}

var joinedColumns = []string{
	"target_name", "target_file", "source", "prot_start", "prot_end",
	"flanking_id", "flanking_start", "flanking_end", "flanking_strand",
	"relative_distance",
	"emapper_evalue", "emapper_protein_start", "emapper_protein_end",
	"emapper_protein_cov", "emapper_PFAMs", "emapper_Description",
	"pfam_evalue", "pfam_score", "pfam_query_name",
}

// WriteJoined writes the joined table as TSV. An empty row set still
// produces a header so downstream consumers always see the schema.
func WriteJoined(w io.Writer, rows []JoinedRow) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, strings.Join(joinedColumns, "\t")); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(bw, "%s\t%s\t%s\t%d\t%d\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.TargetName, r.TargetFile, r.Source, r.ProtStart, r.ProtEnd,
			r.FlankingID, r.FlankingStart, r.FlankingEnd, r.FlankingStrand,
			r.RelativeDist,
			r.Ortholog.Evalue, r.Ortholog.ProteinStart, r.Ortholog.ProteinEnd,
			r.Ortholog.ProteinCov, r.Ortholog.PFAMs, r.Ortholog.Description,
			r.Domain.Evalues, r.Domain.Scores, r.Domain.QueryNames)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
