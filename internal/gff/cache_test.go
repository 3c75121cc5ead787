package gff

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetOrBuild(t *testing.T) {
	path := writeGFF(t, sampleGFF)

	c := NewCache()
	table, err := c.GetOrBuild(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 1, c.Len())

	again, err := c.GetOrBuild(path)
	require.NoError(t, err)
	assert.Same(t, table, again)
}

func TestCache_ConcurrentCallersSingleParse(t *testing.T) {
	path := writeGFF(t, sampleGFF)

	var parses atomic.Int64
	c := NewCache()
	c.parse = func(p string) (*Table, error) {
		parses.Add(1)
		return ParseTable(p)
	}

	const callers = 32
	tables := make([]*Table, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := range callers {
		go func() {
			defer wg.Done()
			table, err := c.GetOrBuild(path)
			assert.NoError(t, err)
			tables[i] = table
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), parses.Load(), "concurrent callers must collapse into one parse")
	for i := 1; i < callers; i++ {
		assert.Same(t, tables[0], tables[i], "all callers must observe the identical table instance")
	}
}

func TestCache_FailureNotCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.gff")

	var parses atomic.Int64
	c := NewCache()
	c.parse = func(p string) (*Table, error) {
		parses.Add(1)
		return ParseTable(p)
	}

	_, err := c.GetOrBuild(path)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	// The table appears later; the next call retries and succeeds.
	require.NoError(t, os.WriteFile(path, []byte(sampleGFF), 0o644))
	table, err := c.GetOrBuild(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, int64(2), parses.Load())
}

func TestCache_FailureIsolatedPerKey(t *testing.T) {
	good := writeGFF(t, sampleGFF)
	bad := filepath.Join(t.TempDir(), "missing.gff")

	c := NewCache()
	_, err := c.GetOrBuild(bad)
	require.ErrorIs(t, err, os.ErrNotExist)

	table, err := c.GetOrBuild(good)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}
