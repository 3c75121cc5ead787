package integrate

import (
	"strings"
)

// DomainAnnotation aggregates the domain-search hits for one gene.
// A gene can carry several domain hits; the per-hit values are kept in
// hit order as comma-joined lists, mirroring the grouped table the
// downstream report consumes.
type DomainAnnotation struct {
	Evalues    string
	Scores     string
	QueryNames string
}

// LoadDomainTable reads a merged domain-search table (hmmsearch
// domtblout integration output) and groups it by gene id. Expected
// columns: target_name, full_seq_Evalue, full_seq_score, query_name.
func LoadDomainTable(path string) (map[string]DomainAnnotation, error) {
	t, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(path, "target_name", "full_seq_Evalue", "full_seq_score", "query_name"); err != nil {
		return nil, err
	}

	type lists struct {
		evalues, scores, names []string
	}
	grouped := make(map[string]*lists)
	for _, row := range t.rows {
		id := t.get(row, "target_name")
		if id == "" {
			continue
		}
		l, ok := grouped[id]
		if !ok {
			l = &lists{}
			grouped[id] = l
		}
		l.evalues = append(l.evalues, t.get(row, "full_seq_Evalue"))
		l.scores = append(l.scores, t.get(row, "full_seq_score"))
		l.names = append(l.names, t.get(row, "query_name"))
	}

	out := make(map[string]DomainAnnotation, len(grouped))
	for id, l := range grouped {
		out[id] = DomainAnnotation{
			Evalues:    strings.Join(l.evalues, ","),
			Scores:     strings.Join(l.scores, ","),
			QueryNames: strings.Join(l.names, ","),
		}
	}
	return out, nil
}

// OrthologAnnotation is one gene's ortholog-mapper call.
type OrthologAnnotation struct {
	Evalue       string
	ProteinStart string
	ProteinEnd   string
	ProteinCov   string
	PFAMs        string
	Description  string
}

// LoadOrthologTable reads a merged ortholog-mapper table keyed by
// query_name. Duplicate ids keep the first row so the later join stays
// one row per match. Missing optional columns yield empty fields.
func LoadOrthologTable(path string) (map[string]OrthologAnnotation, error) {
	t, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(path, "query_name"); err != nil {
		return nil, err
	}

	out := make(map[string]OrthologAnnotation)
	for _, row := range t.rows {
		id := t.get(row, "query_name")
		if id == "" {
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = OrthologAnnotation{
			Evalue:       t.get(row, "evalue"),
			ProteinStart: t.get(row, "qstart"),
			ProteinEnd:   t.get(row, "qend"),
			ProteinCov:   t.get(row, "qcov"),
			PFAMs:        t.get(row, "PFAMs"),
			Description:  t.get(row, "Description"),
		}
	}
	return out, nil
}
