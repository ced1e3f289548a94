package histogram

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/fractal"
	"github.com/marben/fractatoe/grid"
)

// bandsPerWorker splits the grid finer than the worker count: escape-time
// cost varies wildly between rows, and small bands keep every worker busy.
const bandsPerWorker = 4

// Option configures Generate.
type Option func(*options)

type options struct {
	workers  int
	progress func(done, total int)
}

// WithWorkers bounds the number of concurrently evaluated bands. Values below
// one select runtime.GOMAXPROCS(0). It overrides FractalConfig.Workers.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress registers a callback invoked each time a band of rows has been
// evaluated, with the number of finished pixels and the total. Calls are
// serialized and done never decreases.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Generate samples the fractal described by cfg and returns its histogram.
//
// The configuration is validated before any sampling. Rows are split into
// contiguous bands evaluated by a bounded worker pool; each band owns its
// slice of the per-pixel arrays and counts escapes into a frequency table
// held by its worker, so at most one table per worker exists. The tables are
// summed after every band has finished, so the result does not depend on
// scheduling.
func Generate(ctx context.Context, cfg fractatoe.FractalConfig, opts ...Option) (*Histogram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Normalize()
	eval, err := fractal.New(n)
	if err != nil {
		return nil, err
	}
	g := grid.New(n)

	o := options{workers: n.Workers}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	h := New(n.Width, n.Height, n.MaxIterations, n.Smooth)
	h.Fingerprint = n.Fingerprint()

	bands := g.Bands(o.workers * bandsPerWorker)
	o.workers = min(o.workers, len(bands))
	tallies := newTallyPool(o.workers, n.MaxIterations)
	progress := newTracker(g.Pixels(), o.progress)

	log := fractatoe.Logger()
	log.Info("generating histogram",
		"kind", n.Kind, "width", n.Width, "height", n.Height,
		"max_iterations", n.MaxIterations, "supersampling", n.Supersampling,
		"workers", o.workers, "bands", len(bands))
	start := time.Now()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for _, band := range bands {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := tallies.get()
			fillBand(h, eval, g, band, t)
			tallies.put(t)
			progress.bandFinished(band)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	h.Bounded = tallies.merge(h.Frequencies)

	log.Info("histogram generated",
		"escaped", h.Escaped(), "bounded", h.Bounded, "elapsed", time.Since(start))
	return h, nil
}

// tally is the escape count of the bands one worker has evaluated.
type tally struct {
	frequencies []uint64
	bounded     uint64
}

// tallyPool hands out at most one tally per concurrently running band. A
// tally is allocated on first use, so a pool never holds more tables than
// there were workers busy at the same time.
type tallyPool struct {
	free          chan *tally
	all           []*tally
	m             sync.Mutex
	maxIterations int
}

func newTallyPool(workers, maxIterations int) *tallyPool {
	return &tallyPool{free: make(chan *tally, workers), maxIterations: maxIterations}
}

func (p *tallyPool) get() *tally {
	select {
	case t := <-p.free:
		return t
	default:
	}
	t := &tally{frequencies: make([]uint64, p.maxIterations+1)}
	p.m.Lock()
	p.all = append(p.all, t)
	p.m.Unlock()
	return t
}

func (p *tallyPool) put(t *tally) {
	p.free <- t
}

// merge adds every tally into freq and returns the bounded total. Addition
// is commutative, so which worker evaluated which band is irrelevant.
func (p *tallyPool) merge(freq []uint64) uint64 {
	clear(freq)
	var bounded uint64
	for _, t := range p.all {
		for n, f := range t.frequencies {
			freq[n] += f
		}
		bounded += t.bounded
	}
	return bounded
}

// fillBand evaluates every pixel of band, storing results straight into h's
// arrays (bands never overlap) and tallying them into t.
func fillBand(h *Histogram, eval *fractal.Evaluator, g grid.Grid, band image.Rectangle, t *tally) {
	ss := max(g.Supersampling, 1)
	subs := make([]fractal.Sample, 0, ss*ss)

	for p, c := range g.Rect(band) {
		var s fractal.Sample
		if ss == 1 {
			s = eval.Evaluate(c)
		} else {
			subs = subs[:0]
			for sc := range g.SubSamples(p) {
				subs = append(subs, eval.Evaluate(sc))
			}
			s = grid.Combine(subs, h.Smooth)
		}

		h.store(p.Y*h.Width+p.X, s)
		if s.Escaped {
			t.frequencies[s.Iterations]++
		} else {
			t.bounded++
		}
	}
}

// tracker counts finished pixels across workers.
type tracker struct {
	m        sync.Mutex
	total    int
	finished int
	report   func(done, total int)
}

func newTracker(total int, report func(done, total int)) *tracker {
	return &tracker{total: total, report: report}
}

func (t *tracker) bandFinished(band image.Rectangle) {
	t.m.Lock()
	defer t.m.Unlock()

	t.finished += band.Dx() * band.Dy()
	fractatoe.Logger().Debug("band finished", "band", band, "finished", float32(t.finished)/float32(t.total))
	if t.report != nil {
		t.report(t.finished, t.total)
	}
}

// GenerateFile validates cfg, generates its histogram and writes it to path.
// Nothing is written when any step fails.
func GenerateFile(ctx context.Context, cfg fractatoe.FractalConfig, path string, opts ...Option) error {
	h, err := Generate(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	return WriteFile(path, h)
}

// FileGenerator adapts GenerateFile to fractatoe.Generator.
type FileGenerator struct {
	Options []Option
}

// GenerateFile implements fractatoe.Generator.
func (fg FileGenerator) GenerateFile(ctx context.Context, cfg fractatoe.FractalConfig, path string) error {
	return GenerateFile(ctx, cfg, path, fg.Options...)
}

var _ fractatoe.Generator = FileGenerator{}
