// Package window performs interval-overlap matching against a flanking
// window around a target feature.
package window

import "github.com/metaflank/flankscope/internal/resolve"

// Match is a record selected by the overlap test.
type Match struct {
	ID     string
	Start  int
	End    int
	Strand int
}

// Overlapping returns the records whose interval overlaps the window
// [targetStart-upstream, targetEnd+downstream], using a closed-interval
// test: a record matches iff record.End >= windowStart and
// record.Start <= windowEnd. Input order is preserved; the target's own
// feature is not excluded when it appears among the records.
func Overlapping(records []resolve.Record, targetStart, targetEnd, upstream, downstream int) []Match {
	return ToMatches(Select(records, targetStart, targetEnd, upstream, downstream))
}

// ToMatches strips sequence payloads from records, keeping only the
// match metadata.
func ToMatches(records []resolve.Record) []Match {
	var matches []Match
	for _, rec := range records {
		matches = append(matches, Match{
			ID:     rec.ID,
			Start:  rec.Start,
			End:    rec.End,
			Strand: rec.Strand,
		})
	}
	return matches
}

// Select returns the subset of records matched by Overlapping, carrying
// their sequence payloads, for writing per-target FASTA artifacts.
func Select(records []resolve.Record, targetStart, targetEnd, upstream, downstream int) []resolve.Record {
	windowStart := targetStart - upstream
	windowEnd := targetEnd + downstream

	var out []resolve.Record
	for _, rec := range records {
		if rec.End >= windowStart && rec.Start <= windowEnd {
			out = append(out, rec)
		}
	}
	return out
}
