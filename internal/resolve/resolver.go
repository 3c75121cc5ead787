package resolve

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/metaflank/flankscope/internal/fasta"
	"github.com/metaflank/flankscope/internal/gff"
)

// ErrMissingAnnotation is returned when a GFF-linked archive has no
// paired annotation table on disk. Callers treat it as a per-row skip.
var ErrMissingAnnotation = errors.New("paired annotation table not found")

// Record is a gene call with normalized coordinates, scoped to the
// genome containing the resolve target. Strand is +1 or -1.
type Record struct {
	ID     string
	Start  int
	End    int
	Strand int
	Seq    fasta.Record
}

// Resolver extracts coordinate records from sequence archives. GFF
// tables are fetched through the shared cache so that concurrent rows
// hitting the same table parse it once.
type Resolver struct {
	cache  *gff.Cache
	logger *zap.Logger
}

// NewResolver creates a resolver backed by the given annotation cache.
func NewResolver(cache *gff.Cache) *Resolver {
	return &Resolver{cache: cache, logger: zap.NewNop()}
}

// SetLogger sets the logger for warning messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Resolve reads archivePath and returns the records belonging to the
// genome of targetID, in archive order. An unresolvable target genome
// yields an empty result, not an error.
func (r *Resolver) Resolve(archivePath, targetID string, src Source) ([]Record, error) {
	switch src {
	case SourceGFFLinked:
		return r.resolveGFFLinked(archivePath, targetID)
	case SourceTranslatedCDS:
		return r.resolveTranslatedCDS(archivePath, targetID)
	default:
		return r.resolveProdigal(archivePath, targetID)
	}
}

var fastaExtPattern = regexp.MustCompile(`\.(fa|faa|fasta)(\.gz)?$`)

// AnnotationPath derives the paired GFF table path from a sequence
// archive path by swapping the FASTA extension.
func AnnotationPath(archivePath string) string {
	return fastaExtPattern.ReplaceAllString(archivePath, ".gff")
}

func (r *Resolver) resolveGFFLinked(archivePath, targetID string) ([]Record, error) {
	gffPath := AnnotationPath(archivePath)
	if _, err := os.Stat(gffPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingAnnotation, gffPath)
	}

	table, err := r.cache.GetOrBuild(gffPath)
	if err != nil {
		return nil, fmt.Errorf("build annotation table %s: %w", gffPath, err)
	}

	targetGenome := table.GenomeOf(targetID)
	if targetGenome == "" {
		// Target locus tag absent from the table: genome scope cannot
		// be established, so there are no neighbors to report.
		r.logger.Warn("target locus tag not found in annotation table",
			zap.String("target", targetID),
			zap.String("table", gffPath))
		return nil, nil
	}

	// Keep only rows on the target's genome, indexed by locus tag.
	scoped := make(map[string]gff.Row)
	for _, row := range table.Rows() {
		if row.Genome == targetGenome && row.LocusTag != "" {
			if _, seen := scoped[row.LocusTag]; !seen {
				scoped[row.LocusTag] = row
			}
		}
	}

	records, err := fasta.ReadAll(archivePath)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
	}

	var out []Record
	for _, rec := range records {
		row, ok := scoped[rec.ID]
		if !ok {
			continue
		}
		out = append(out, Record{
			ID:     rec.ID,
			Start:  row.Start,
			End:    row.End,
			Strand: row.Strand,
			Seq:    rec,
		})
	}
	return out, nil
}

// ProdigalGenome derives the genome id from a prodigal record id by
// stripping the trailing underscore-delimited gene index.
func ProdigalGenome(id string) string {
	idx := strings.LastIndex(id, "_")
	if idx == -1 {
		return id
	}
	return id[:idx]
}

// parseProdigalHeader extracts start, end and strand from a prodigal
// description of the form "id # start # end # strand # ...".
func parseProdigalHeader(description string) (start, end, strand int, err error) {
	parts := strings.Split(description, "#")
	if len(parts) < 4 {
		return 0, 0, 0, fmt.Errorf("prodigal header has %d '#'-delimited fields, need at least 4: %q", len(parts), description)
	}
	vals := make([]int, 3)
	for i, p := range parts[1:4] {
		v, convErr := strconv.Atoi(strings.TrimSpace(p))
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("prodigal header field %d not an integer: %q", i+1, description)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}

func (r *Resolver) resolveProdigal(archivePath, targetID string) ([]Record, error) {
	targetGenome := ProdigalGenome(targetID)

	records, err := fasta.ReadAll(archivePath)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
	}

	var out []Record
	for _, rec := range records {
		if ProdigalGenome(rec.ID) != targetGenome {
			continue
		}
		start, end, strand, err := parseProdigalHeader(rec.Description)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{
			ID:     rec.ID,
			Start:  start,
			End:    end,
			Strand: strand,
			Seq:    rec,
		})
	}
	return out, nil
}

// TranslatedCDSGenome derives the genome id from an NCBI translated-CDS
// record id: the lcl| prefix is stripped and the id truncated at the
// _prot_ marker.
func TranslatedCDSGenome(id string) string {
	id = strings.TrimPrefix(id, "lcl|")
	if idx := strings.Index(id, "_prot_"); idx != -1 {
		return id[:idx]
	}
	return id
}

var digitsPattern = regexp.MustCompile(`\d+`)

// parseLocation extracts start, end and strand from a translated-CDS
// description embedding a [location=...] field. Compound (joined)
// locations collapse to their outer bounds; a "complement" token flips
// the strand.
func parseLocation(description string) (start, end, strand int, err error) {
	strand = 1
	if strings.Contains(description, "complement") {
		strand = -1
	}
	parts := description
	if idx := strings.LastIndex(parts, "[location="); idx != -1 {
		parts = parts[idx+len("[location="):]
	}
	if idx := strings.Index(parts, "]"); idx != -1 {
		parts = parts[:idx]
	}

	numbers := digitsPattern.FindAllString(parts, -1)
	if len(numbers) == 0 {
		return 0, 0, 0, fmt.Errorf("no coordinates in location field: %q", description)
	}
	start = int(^uint(0) >> 1)
	end = 0
	for _, n := range numbers {
		v, convErr := strconv.Atoi(n)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("bad coordinate %q in location field: %q", n, description)
		}
		if v < start {
			start = v
		}
		if v > end {
			end = v
		}
	}
	return start, end, strand, nil
}

func (r *Resolver) resolveTranslatedCDS(archivePath, targetID string) ([]Record, error) {
	targetGenome := TranslatedCDSGenome(targetID)

	records, err := fasta.ReadAll(archivePath)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
	}

	var out []Record
	for _, rec := range records {
		if TranslatedCDSGenome(rec.ID) != targetGenome {
			continue
		}
		start, end, strand, err := parseLocation(rec.Description)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{
			ID:     rec.ID,
			Start:  start,
			End:    end,
			Strand: strand,
			Seq:    rec,
		})
	}
	return out, nil
}
