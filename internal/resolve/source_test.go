package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		archive string
		want    Source
	}{
		{
			name:    "gff linked source tag",
			source:  "IMGM_metagenome(no more use)",
			archive: "/data/imgm/bin_001.faa",
			want:    SourceGFFLinked,
		},
		{
			name:    "plain imgm tag is prodigal called",
			source:  "IMGM_metagenome",
			archive: "/data/IMGM_metagenome/prodigal/bin_001.faa",
			want:    SourceProdigal,
		},
		{
			name:    "ncbi translated cds archive",
			source:  "NCBI_assembly",
			archive: "/data/ncbi/GCF_000001_translated_cds.faa.gz",
			want:    SourceTranslatedCDS,
		},
		{
			name:    "ncbi source without translated cds naming",
			source:  "NCBI_assembly",
			archive: "/data/ncbi/GCF_000001_protein.faa",
			want:    SourceProdigal,
		},
		{
			name:    "translated cds naming without ncbi source",
			source:  "MGnify",
			archive: "/data/mgnify/x_translated_cds.faa",
			want:    SourceProdigal,
		},
		{
			name:    "prodigal default",
			source:  "bacteria_assembly_summary",
			archive: "/data/prodigal/GCA_002.faa",
			want:    SourceProdigal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.source, tt.archive))
		})
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "gff-linked", SourceGFFLinked.String())
	assert.Equal(t, "prodigal", SourceProdigal.String())
	assert.Equal(t, "translated-cds", SourceTranslatedCDS.String())
}
