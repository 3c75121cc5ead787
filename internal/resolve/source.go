// Package resolve extracts genome-scoped gene coordinates from
// heterogeneously-annotated sequence archives.
package resolve

import "strings"

// Source identifies the coordinate-extraction strategy for an archive.
type Source int

const (
	// SourceProdigal covers self-called gene predictions whose headers
	// carry '#'-delimited start/end/strand fields. It is the default.
	SourceProdigal Source = iota
	// SourceGFFLinked covers archives cross-referenced to a paired
	// GFF annotation table via a locus tag.
	SourceGFFLinked
	// SourceTranslatedCDS covers NCBI translated-CDS archives whose
	// descriptions embed a [location=...] field.
	SourceTranslatedCDS
)

func (s Source) String() string {
	switch s {
	case SourceGFFLinked:
		return "gff-linked"
	case SourceTranslatedCDS:
		return "translated-cds"
	default:
		return "prodigal"
	}
}

// gffLinkedMarker is the source tag marking archives with a paired
// GFF table. The plain IMGM_metagenome tag is prodigal-called and must
// not match.
const gffLinkedMarker = "IMGM_metagenome(no more use)"

// Classify selects the strategy for a source tag and archive path.
// It is a pure function: a GFF-linked source tag wins, then an
// NCBI-style source whose archive follows the translated-CDS naming
// convention, then the prodigal default.
func Classify(sourceTag, archivePath string) Source {
	if strings.Contains(sourceTag, gffLinkedMarker) {
		return SourceGFFLinked
	}
	if strings.Contains(sourceTag, "NCBI") && strings.Contains(archivePath, "translated_cds") {
		return SourceTranslatedCDS
	}
	return SourceProdigal
}
