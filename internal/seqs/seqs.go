// Package seqs extracts target sequences by record id from per-source
// archives and merges them into a single FASTA.
package seqs

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/metaflank/flankscope/internal/fasta"
	"github.com/metaflank/flankscope/internal/flank"
)

// Request names the ids to pull from one archive.
type Request struct {
	Source string
	File   string
	IDs    []string
}

// Missing records an id that could not be extracted, with the reason.
type Missing struct {
	Source string
	File   string
	ID     string
	Reason string
}

// GroupTargets groups summary rows into one request per
// (source, archive base), preserving first-seen order.
func GroupTargets(targets []flank.Target) []Request {
	type key struct{ source, file string }
	index := make(map[key]int)
	var reqs []Request
	for _, t := range targets {
		k := key{t.Source, t.ArchiveBase()}
		i, ok := index[k]
		if !ok {
			i = len(reqs)
			index[k] = i
			reqs = append(reqs, Request{Source: t.Source, File: t.ArchiveBase()})
		}
		reqs[i].IDs = append(reqs[i].IDs, t.Name)
	}
	return reqs
}

// Extractor pulls sequences from archives across a worker pool.
type Extractor struct {
	roots   map[string]string
	workers int
	logger  *zap.Logger
}

// NewExtractor creates an extractor; workers <= 0 means
// runtime.NumCPU().
func NewExtractor(roots map[string]string, workers int) *Extractor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Extractor{roots: roots, workers: workers, logger: zap.NewNop()}
}

// SetLogger sets the logger for per-archive warnings.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Extract processes all requests and returns the found records in
// request order, plus the ids that were not found. An unknown source or
// missing archive marks all of that request's ids missing; it never
// fails the batch.
func (e *Extractor) Extract(reqs []Request) ([]fasta.Record, []Missing) {
	type result struct {
		seq     int
		records []fasta.Record
		missing []Missing
	}

	items := make(chan int, len(reqs))
	results := make(chan result, len(reqs))

	var wg sync.WaitGroup
	wg.Add(e.workers)
	for range e.workers {
		go func() {
			defer wg.Done()
			for seq := range items {
				records, missing := e.extractOne(reqs[seq])
				results <- result{seq: seq, records: records, missing: missing}
			}
		}()
	}

	for i := range reqs {
		items <- i
	}
	close(items)

	go func() {
		wg.Wait()
		close(results)
	}()

	perReq := make([][]fasta.Record, len(reqs))
	missPerReq := make([][]Missing, len(reqs))
	for r := range results {
		perReq[r.seq] = r.records
		missPerReq[r.seq] = r.missing
	}

	var records []fasta.Record
	var missing []Missing
	for i := range reqs {
		records = append(records, perReq[i]...)
		missing = append(missing, missPerReq[i]...)
	}
	return records, missing
}

func (e *Extractor) extractOne(req Request) ([]fasta.Record, []Missing) {
	markAll := func(reason string) []Missing {
		out := make([]Missing, 0, len(req.IDs))
		for _, id := range req.IDs {
			out = append(out, Missing{Source: req.Source, File: req.File, ID: id, Reason: reason})
		}
		return out
	}

	root, ok := e.roots[req.Source]
	if !ok {
		e.logger.Warn("unknown source", zap.String("source", req.Source))
		return nil, markAll("unknown source")
	}
	archive, found := fasta.FindArchive(root, req.File)
	if !found {
		e.logger.Warn("sequence archive not found",
			zap.String("source", req.Source),
			zap.String("base", req.File))
		return nil, markAll("archive not found")
	}

	records, err := fasta.ReadAll(archive)
	if err != nil {
		e.logger.Warn("archive read failed",
			zap.String("path", archive),
			zap.Error(err))
		return nil, markAll("archive read failed")
	}

	want := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		want[id] = true
	}

	var out []fasta.Record
	for _, rec := range records {
		if want[rec.ID] {
			out = append(out, rec)
			delete(want, rec.ID)
		}
	}

	var missing []Missing
	for _, id := range req.IDs {
		if want[id] {
			missing = append(missing, Missing{Source: req.Source, File: req.File, ID: id, Reason: "id not in archive"})
		}
	}
	return out, missing
}
