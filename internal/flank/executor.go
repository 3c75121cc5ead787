package flank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/metaflank/flankscope/internal/fasta"
	"github.com/metaflank/flankscope/internal/resolve"
	"github.com/metaflank/flankscope/internal/window"
)

// Options configures an extraction run.
type Options struct {
	// Roots maps a source tag to the directory holding its archives.
	Roots map[string]string
	// Upstream and Downstream are the window sizes in bp; both must be
	// non-negative.
	Upstream   int
	Downstream int
	// OutDir receives one FASTA artifact per target.
	OutDir string
	// Overwrite replaces existing artifacts; otherwise an existing
	// artifact wins and the write is skipped.
	Overwrite bool
	// Workers sizes the pool; 0 means runtime.NumCPU().
	Workers int
}

// Result is the outcome for one input row. Exactly one of the
// non-metadata fields describes the row: Matches for a resolved row
// (possibly empty), Skip for a non-fatal skip, Err for a row-level
// failure. Sibling rows are never affected.
type Result struct {
	Target  Target
	Matches []window.Match
	Skip    string
	Err     error
}

// Executor fans extraction tasks out across a worker pool.
type Executor struct {
	resolver *resolve.Resolver
	opts     Options
	logger   *zap.Logger
}

// NewExecutor creates an executor. The resolver's annotation cache is
// the only state shared across tasks.
func NewExecutor(resolver *resolve.Resolver, opts Options) (*Executor, error) {
	if opts.Upstream < 0 || opts.Downstream < 0 {
		return nil, fmt.Errorf("window sizes must be non-negative: upstream=%d downstream=%d", opts.Upstream, opts.Downstream)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Executor{resolver: resolver, opts: opts, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for per-row skip and failure messages.
func (e *Executor) SetLogger(l *zap.Logger) {
	e.logger = l
}

type workItem struct {
	seq    int
	target Target
}

type workResult struct {
	seq     int
	matches []window.Match
	skip    string
	err     error
}

// Run processes all targets and returns one result per input row, in
// input order regardless of completion order. Row-level failures are
// recorded in the result, logged, and never abort the batch.
func (e *Executor) Run(targets []Target) ([]Result, error) {
	if e.opts.OutDir != "" {
		if err := os.MkdirAll(e.opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	items := make(chan workItem, 2*e.opts.Workers)
	results := make(chan workResult, 2*e.opts.Workers)

	var wg sync.WaitGroup
	wg.Add(e.opts.Workers)
	for range e.opts.Workers {
		go func() {
			defer wg.Done()
			for item := range items {
				matches, skip, err := e.processRow(item.target)
				results <- workResult{seq: item.seq, matches: matches, skip: skip, err: err}
			}
		}()
	}

	go func() {
		for i, t := range targets {
			items <- workItem{seq: i, target: t}
		}
		close(items)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result, len(targets))
	for r := range results {
		res := Result{Target: targets[r.seq], Matches: r.matches, Skip: r.skip, Err: r.err}
		switch {
		case r.err != nil:
			e.logger.Warn("row failed",
				zap.String("target", res.Target.Name),
				zap.Error(r.err))
		case r.skip != "":
			e.logger.Warn("row skipped",
				zap.String("target", res.Target.Name),
				zap.String("reason", r.skip))
		}
		out[r.seq] = res
	}
	return out, nil
}

// processRow resolves one target and writes its FASTA artifact. A
// missing archive or paired annotation table is a skip; an unexpected
// resolution failure is a row-level error.
func (e *Executor) processRow(t Target) (matches []window.Match, skip string, err error) {
	root, ok := e.opts.Roots[t.Source]
	if !ok {
		return nil, fmt.Sprintf("unknown source %q", t.Source), nil
	}

	archive, found := fasta.FindArchive(root, t.ArchiveBase())
	if !found {
		return nil, fmt.Sprintf("no sequence archive for %q under %s", t.ArchiveBase(), root), nil
	}

	src := resolve.Classify(t.Source, archive)
	records, err := e.resolver.Resolve(archive, t.Name, src)
	if err != nil {
		if errors.Is(err, resolve.ErrMissingAnnotation) {
			return nil, err.Error(), nil
		}
		return nil, "", err
	}

	targetStart, targetEnd := t.Interval()
	selected := window.Select(records, targetStart, targetEnd, e.opts.Upstream, e.opts.Downstream)

	if e.opts.OutDir != "" {
		if err := e.writeArtifact(t, selected); err != nil {
			return nil, "", err
		}
	}

	return window.ToMatches(selected), "", nil
}

// writeArtifact writes the per-target FASTA unless it already exists
// and overwriting is disabled.
func (e *Executor) writeArtifact(t Target, selected []resolve.Record) error {
	path := filepath.Join(e.opts.OutDir, t.Name+"_flanking.fasta")
	if !e.opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
	}
	records := make([]fasta.Record, 0, len(selected))
	for _, rec := range selected {
		records = append(records, rec.Seq)
	}
	if err := fasta.WriteFile(path, records); err != nil {
		return fmt.Errorf("write artifact for %s: %w", t.Name, err)
	}
	return nil
}
