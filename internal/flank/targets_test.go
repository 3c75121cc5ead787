package flank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSummary = "target_name\ttarget_file\tsource\tprot_start\tprot_end\tstrand\textra_col\n" +
	"seq_1_3\tbin1.faa.domtblout\tMGnify\t1100\t1900\t+\tignored\n" +
	"seq_2_1\tbin2.domtblout\tbacteria_assembly_summary\t900\t400\t-\tignored\n"

func TestReadTargets(t *testing.T) {
	targets, err := ReadTargets(strings.NewReader(sampleSummary))
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, "seq_1_3", targets[0].Name)
	assert.Equal(t, "bin1.faa.domtblout", targets[0].File)
	assert.Equal(t, "MGnify", targets[0].Source)
	assert.Equal(t, 1100, targets[0].ProtStart)
	assert.Equal(t, 1900, targets[0].ProtEnd)
	assert.Equal(t, "+", targets[0].Strand)
}

func TestReadTargets_MissingColumn(t *testing.T) {
	_, err := ReadTargets(strings.NewReader("target_name\ttarget_file\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestReadTargets_FloatCoordinates(t *testing.T) {
	in := "target_name\ttarget_file\tsource\tprot_start\tprot_end\tstrand\n" +
		"x\tf.domtblout\tsrc\t100.0\t250.0\t+\n"
	targets, err := ReadTargets(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 100, targets[0].ProtStart)
	assert.Equal(t, 250, targets[0].ProtEnd)
}

func TestTargetInterval_Unordered(t *testing.T) {
	targets, err := ReadTargets(strings.NewReader(sampleSummary))
	require.NoError(t, err)

	start, end := targets[1].Interval()
	assert.Equal(t, 400, start)
	assert.Equal(t, 900, end)
}

func TestTargetArchiveBase(t *testing.T) {
	assert.Equal(t, "bin1.faa", Target{File: "bin1.faa.domtblout"}.ArchiveBase())
	assert.Equal(t, "bin2", Target{File: "bin2.domtblout"}.ArchiveBase())
	assert.Equal(t, "plain", Target{File: "plain"}.ArchiveBase())
}
