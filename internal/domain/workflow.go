package domain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/greggh/lust-next-sub011/internal/adapter"
	"github.com/greggh/lust-next-sub011/internal/logger"
	"github.com/greggh/lust-next-sub011/internal/lua/parser"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

// ErrThresholdNotMet is returned when total coverage is below the
// configured threshold.
var ErrThresholdNotMet = errors.New("coverage below threshold")

// Workflow defines the coverage operations exposed to the CLI.
type Workflow interface {
	// GetSources discovers the Lua files under roots that pass the
	// include and exclude globs.
	GetSources(roots ...m.Path) ([]m.Source, error)
	// BuildCodeMaps analyzes sources in parallel. Per-file failures become
	// invalid code maps; only cancellation fails the call.
	BuildCodeMaps(ctx context.Context, sources []m.Source) ([]*m.CodeMap, error)
	// Collect replays a worker's trace against the code maps of sources,
	// aggregates and stores the result in outDir.
	Collect(ctx context.Context, sources []m.Source, tracePath, outDir m.Path) (CollectResult, error)
	// Merge loads the worker files of dir and combines them under the
	// partial-data policy. A non-empty out receives the merged file.
	Merge(ctx context.Context, dir, out m.Path) (MergeResult, error)
	// Report loads a stored coverage file.
	Report(path m.Path) (*m.CoverageData, error)
	// CheckThreshold returns ErrThresholdNotMet when data is below the
	// configured threshold.
	CheckThreshold(data *m.CoverageData) error
}

// CollectResult is the outcome of one worker's collection.
type CollectResult struct {
	Data     *m.CoverageData
	Output   m.Path
	Worker   string
	Complete bool
	Events   int
}

// MergeResult is the outcome of merging worker files.
type MergeResult struct {
	Data      *m.CoverageData
	Workers   int
	Partial   int
	Discarded int
	Output    m.Path
}

type workflow struct {
	cfg       m.Config
	fsAdapter adapter.SourceFSAdapter
	store     adapter.CoverageStore
	traces    adapter.TraceReader
	analyzer  Analyzer
	agg       Aggregator
	registry  *Registry
	log       *logger.Logger
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(
	cfg m.Config,
	fsAdapter adapter.SourceFSAdapter,
	store adapter.CoverageStore,
	traces adapter.TraceReader,
	log *logger.Logger,
) Workflow {
	return &workflow{
		cfg:       cfg,
		fsAdapter: fsAdapter,
		store:     store,
		traces:    traces,
		analyzer:  NewAnalyzer(log),
		agg:       NewAggregator(),
		registry:  NewRegistry(),
		log:       log,
	}
}

func (w *workflow) GetSources(roots ...m.Path) ([]m.Source, error) {
	if len(roots) == 0 {
		return []m.Source{}, nil
	}

	all, err := w.fsAdapter.Get(roots)
	if err != nil {
		return nil, err
	}

	filter, err := w.filter()
	if err != nil {
		return nil, err
	}

	sources := make([]m.Source, 0, len(all))

	for _, src := range all {
		if filter.Match(src.Path) {
			sources = append(sources, src)
		}
	}

	return sources, nil
}

func (w *workflow) filter() (*PathFilter, error) {
	base, err := filepath.Abs(".")
	if err != nil {
		return nil, err
	}

	return NewPathFilter(base, w.cfg.Include, w.cfg.Exclude)
}

func (w *workflow) workers() int {
	if w.cfg.Workers > 0 {
		return w.cfg.Workers
	}

	return runtime.GOMAXPROCS(0)
}

func (w *workflow) BuildCodeMaps(ctx context.Context, sources []m.Source) ([]*m.CodeMap, error) {
	maps := make([]*m.CodeMap, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers())

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			maps[i] = w.codeMap(src)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return maps, nil
}

func (w *workflow) codeMap(src m.Source) *m.CodeMap {
	content, err := w.fsAdapter.ReadFile(src.Path)
	if err != nil {
		ioErr := &parser.IOError{Path: string(src.Path), Err: err}
		w.log.Warning("file excluded from coverage", "path", src.Path, "kind", m.ErrKindIO, "err", ioErr)

		return m.Invalid(src.Path, src.Hash, nil, ioErr)
	}

	return w.registry.GetOrCreate(src.Path, content, w.cfg, func() *m.CodeMap {
		return w.analyzer.CreateCodeMap(src.Path, content, w.cfg)
	})
}

func (w *workflow) Collect(ctx context.Context, sources []m.Source, tracePath, outDir m.Path) (CollectResult, error) {
	maps, err := w.BuildCodeMaps(ctx, sources)
	if err != nil {
		return CollectResult{}, err
	}

	trace, err := w.traces.ReadTrace(tracePath)
	if err != nil {
		return CollectResult{}, fmt.Errorf("read trace: %w", err)
	}

	filter, err := w.filter()
	if err != nil {
		return CollectResult{}, err
	}

	tracker := NewTracker()
	if err := replay(tracker, trace, filter); err != nil {
		return CollectResult{}, err
	}

	if !trace.Complete {
		w.log.Warning("trace ended without stop; worker marked partial", "trace", tracePath)
	}

	data := m.NewCoverageData()

	for _, cm := range maps {
		counts, ok := tracker.RawCounts(cm.Path)
		if !ok {
			counts = m.NewRawCounts()
		}

		data.Files[cm.Path] = w.agg.Aggregate(cm, counts)

		if err := tracker.MarkAggregated(cm.Path); err != nil {
			return CollectResult{}, err
		}
	}

	res := CollectResult{Data: data, Worker: trace.Worker, Complete: trace.Complete, Events: len(trace.Events)}
	if res.Worker == "" {
		res.Worker = adapter.NewWorkerID()
	}

	if outDir != "" {
		res.Output, err = w.store.Save(outDir, m.WireCoverage{
			Version:  m.WireVersion,
			Worker:   res.Worker,
			Complete: trace.Complete,
			Files:    data.ToWire(),
		})
		if err != nil {
			return res, fmt.Errorf("store coverage: %w", err)
		}
	}

	return res, nil
}

// replay feeds trace into t. Events ahead of the start event are dropped.
// A log without a stop event still stops the tracker so that its counts
// can be read.
func replay(t Tracker, trace adapter.Trace, filter FileFilter) error {
	started := false

	for _, ev := range trace.Events {
		switch ev.Kind {
		case adapter.TraceStart:
			if started {
				continue
			}

			if err := t.Start(filter); err != nil {
				return err
			}

			started = true
		case adapter.TraceExecuted:
			t.OnLineExecuted(ev.Path, ev.Line)
		case adapter.TraceVerified:
			t.OnLineVerified(ev.Path, ev.Line)
		case adapter.TraceStop:
			if t.Running() {
				if err := t.Stop(); err != nil {
					return err
				}
			}
		}
	}

	if !started {
		if err := t.Start(filter); err != nil {
			return err
		}
	}

	if t.Running() {
		return t.Stop()
	}

	return nil
}

func (w *workflow) Merge(_ context.Context, dir, out m.Path) (MergeResult, error) {
	files, err := w.store.LoadAll(dir)
	if err != nil {
		return MergeResult{}, err
	}

	res := MergeResult{Data: m.NewCoverageData(), Workers: len(files)}

	for _, wc := range files {
		if !wc.Complete {
			res.Partial++

			if w.cfg.PartialPolicy != m.PartialMerge {
				res.Discarded++
				w.log.Warning("discarding partial coverage", "worker", wc.Worker)

				continue
			}

			w.log.Info("merging partial coverage", "worker", wc.Worker)
		}

		res.Data = w.agg.Merge(res.Data, m.FromWire(wc.Files))
	}

	if out != "" {
		wc := m.WireCoverage{
			Version:  m.WireVersion,
			Worker:   "merged",
			Complete: res.Partial == res.Discarded,
			Files:    res.Data.ToWire(),
		}

		if err := w.store.Write(out, wc); err != nil {
			return res, fmt.Errorf("write merged coverage: %w", err)
		}

		res.Output = out
	}

	return res, nil
}

func (w *workflow) Report(path m.Path) (*m.CoverageData, error) {
	wc, err := w.store.Load(path)
	if err != nil {
		return nil, err
	}

	return m.FromWire(wc.Files), nil
}

func (w *workflow) CheckThreshold(data *m.CoverageData) error {
	s := data.Summary()
	if s.MeetsThreshold(w.cfg.Threshold) {
		return nil
	}

	return fmt.Errorf("%.2f%% < %.2f%%: %w", s.Percentage(), w.cfg.Threshold, ErrThresholdNotMet)
}
