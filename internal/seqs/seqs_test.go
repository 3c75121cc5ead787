package seqs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaflank/flankscope/internal/flank"
)

const binOne = `>seq_1_1 first gene
MAAAA
>seq_1_2 second gene
MCCCC
>seq_1_3 third gene
MGGGG
`

const binTwo = `>contig_7_2 other bin
MTTTT
`

func TestGroupTargets(t *testing.T) {
	targets := []flank.Target{
		{Name: "seq_1_1", File: "bin1.domtblout", Source: "prodigal"},
		{Name: "contig_7_2", File: "bin2.domtblout", Source: "prodigal"},
		{Name: "seq_1_3", File: "bin1.domtblout", Source: "prodigal"},
		{Name: "seq_1_1", File: "bin1.domtblout", Source: "imgm"},
	}

	reqs := GroupTargets(targets)
	require.Len(t, reqs, 3)

	assert.Equal(t, "bin1", reqs[0].File)
	assert.Equal(t, "prodigal", reqs[0].Source)
	assert.Equal(t, []string{"seq_1_1", "seq_1_3"}, reqs[0].IDs)

	assert.Equal(t, "bin2", reqs[1].File)
	assert.Equal(t, []string{"contig_7_2"}, reqs[1].IDs)

	// Same file under a different source stays its own request.
	assert.Equal(t, "imgm", reqs[2].Source)
	assert.Equal(t, []string{"seq_1_1"}, reqs[2].IDs)
}

func newRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin1.faa"), []byte(binOne), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin2.faa"), []byte(binTwo), 0o644))
	return root
}

func TestExtract(t *testing.T) {
	root := newRoot(t)
	e := NewExtractor(map[string]string{"prodigal": root}, 2)

	reqs := []Request{
		{Source: "prodigal", File: "bin1", IDs: []string{"seq_1_3", "seq_1_1", "seq_9_9"}},
		{Source: "prodigal", File: "bin2", IDs: []string{"contig_7_2"}},
	}

	records, missing := e.Extract(reqs)

	// Found records come back in request order, each request's records
	// in archive order.
	require.Len(t, records, 3)
	assert.Equal(t, "seq_1_1", records[0].ID)
	assert.Equal(t, "MAAAA", records[0].Seq)
	assert.Equal(t, "seq_1_3", records[1].ID)
	assert.Equal(t, "contig_7_2", records[2].ID)

	require.Len(t, missing, 1)
	assert.Equal(t, "seq_9_9", missing[0].ID)
	assert.Equal(t, "id not in archive", missing[0].Reason)
}

func TestExtract_UnknownSource(t *testing.T) {
	e := NewExtractor(map[string]string{"prodigal": t.TempDir()}, 1)

	records, missing := e.Extract([]Request{
		{Source: "bogus", File: "bin1", IDs: []string{"a", "b"}},
	})

	assert.Empty(t, records)
	require.Len(t, missing, 2)
	for _, m := range missing {
		assert.Equal(t, "unknown source", m.Reason)
		assert.Equal(t, "bogus", m.Source)
	}
}

func TestExtract_MissingArchive(t *testing.T) {
	e := NewExtractor(map[string]string{"prodigal": t.TempDir()}, 1)

	_, missing := e.Extract([]Request{
		{Source: "prodigal", File: "missing_bin", IDs: []string{"seq_1_1"}},
	})

	require.Len(t, missing, 1)
	assert.Equal(t, "archive not found", missing[0].Reason)
	assert.Equal(t, "missing_bin", missing[0].File)
}
