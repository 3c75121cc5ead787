package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaflank/flankscope/internal/resolve"
)

func rec(id string, start, end, strand int) resolve.Record {
	return resolve.Record{ID: id, Start: start, End: end, Strand: strand}
}

func TestOverlapping_ClosedIntervalTest(t *testing.T) {
	records := []resolve.Record{
		rec("far_upstream", 100, 900, 1),    // end < windowStart
		rec("touch_start", 100, 1000, 1),    // end == windowStart
		rec("inside", 1200, 1400, -1),       //
		rec("touch_end", 2000, 2500, 1),     // start == windowEnd
		rec("far_downstream", 2001, 2500, 1),// start > windowEnd
	}

	// target [1100,1900], upstream=downstream=100 -> window [1000,2000]
	matches := Overlapping(records, 1100, 1900, 100, 100)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"touch_start", "inside", "touch_end"}, ids)
}

func TestOverlapping_ExcludesRecordBelowWindow(t *testing.T) {
	// window [1000,2000], record [500,900]: 900 < 1000 means excluded.
	records := []resolve.Record{rec("below", 500, 900, 1)}
	matches := Overlapping(records, 1000, 2000, 0, 0)
	assert.Empty(t, matches)
}

func TestOverlapping_SymmetricWindow(t *testing.T) {
	const d = 300
	records := []resolve.Record{
		rec("at_lower_bound", 100, 700, 1),  // end == targetStart-d
		rec("at_upper_bound", 2300, 2400, 1),// start == targetEnd+d
		rec("past_lower", 100, 699, 1),
		rec("past_upper", 2301, 2400, 1),
	}
	matches := Overlapping(records, 1000, 2000, d, d)
	require.Len(t, matches, 2)
	assert.Equal(t, "at_lower_bound", matches[0].ID)
	assert.Equal(t, "at_upper_bound", matches[1].ID)
}

func TestOverlapping_AllMatchesWithinBounds(t *testing.T) {
	var records []resolve.Record
	for start := 0; start < 3000; start += 37 {
		records = append(records, rec("r", start, start+20, 1))
	}

	targetStart, targetEnd := 1000, 1500
	upstream, downstream := 250, 125
	windowStart := targetStart - upstream
	windowEnd := targetEnd + downstream

	matches := Overlapping(records, targetStart, targetEnd, upstream, downstream)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.End, windowStart)
		assert.LessOrEqual(t, m.Start, windowEnd)
	}

	// Exhaustive negative check: nothing outside the bound is returned.
	matched := len(matches)
	inBound := 0
	for _, r := range records {
		if r.End >= windowStart && r.Start <= windowEnd {
			inBound++
		}
	}
	assert.Equal(t, inBound, matched)
}

func TestOverlapping_PreservesInputOrder(t *testing.T) {
	records := []resolve.Record{
		rec("c", 500, 600, 1),
		rec("a", 100, 200, 1),
		rec("b", 300, 400, 1),
	}
	matches := Overlapping(records, 1, 1000, 0, 0)
	require.Len(t, matches, 3)
	assert.Equal(t, "c", matches[0].ID)
	assert.Equal(t, "a", matches[1].ID)
	assert.Equal(t, "b", matches[2].ID)
}

func TestOverlapping_TargetOwnFeatureNotExcluded(t *testing.T) {
	records := []resolve.Record{rec("target_itself", 1000, 2000, 1)}
	matches := Overlapping(records, 1000, 2000, 100, 100)
	require.Len(t, matches, 1)
	assert.Equal(t, "target_itself", matches[0].ID)
}

func TestSelect_CarriesSequencePayload(t *testing.T) {
	r := rec("x", 100, 200, 1)
	r.Seq.Seq = "MKLV"
	selected := Select([]resolve.Record{r}, 150, 160, 100, 100)
	require.Len(t, selected, 1)
	assert.Equal(t, "MKLV", selected[0].Seq.Seq)
}
