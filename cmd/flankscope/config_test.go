package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    any
		wantErr string
	}{
		{
			name:  "upstream window",
			key:   "window.upstream",
			value: "5000",
			want:  5000,
		},
		{
			name:  "downstream window zero",
			key:   "window.downstream",
			value: "0",
			want:  0,
		},
		{
			name:    "window not an integer",
			key:     "window.upstream",
			value:   "lots",
			wantErr: "must be an integer",
		},
		{
			name:    "window negative",
			key:     "window.downstream",
			value:   "-10",
			wantErr: "must be non-negative",
		},
		{
			name:  "source mapping",
			key:   "sources.MGnify",
			value: "/data/MGnify/faa",
			want:  "/data/MGnify/faa",
		},
		{
			name:    "source mapping without tag",
			key:     "sources.",
			value:   "/data",
			wantErr: "needs a tag",
		},
		{
			name:    "source mapping without path",
			key:     "sources.MGnify",
			value:   "",
			wantErr: "needs a root directory",
		},
		{
			name:  "workers",
			key:   "workers",
			value: "16",
			want:  16,
		},
		{
			name:    "unknown key rejected",
			key:     "window.upstrem",
			value:   "5000",
			wantErr: "unknown configuration key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseConfigValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveKey(t *testing.T) {
	settings := map[string]any{
		"workers": 8,
		"sources": map[string]any{
			"MGnify": "/data/MGnify/faa",
			"NCBI":   "/data/NCBI/faa",
		},
	}

	removeKey(settings, []string{"sources", "NCBI"})
	sources := settings["sources"].(map[string]any)
	assert.NotContains(t, sources, "NCBI")
	assert.Contains(t, sources, "MGnify")

	// Removing the last child prunes the empty parent map.
	removeKey(settings, []string{"sources", "MGnify"})
	assert.NotContains(t, settings, "sources")
	assert.Contains(t, settings, "workers")
}
