package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"AfriQuoteFeed/internal/calculator"
	"AfriQuoteFeed/internal/collector"
	"AfriQuoteFeed/internal/metrics"
	"AfriQuoteFeed/internal/model"
	"AfriQuoteFeed/internal/persist"
	"AfriQuoteFeed/internal/recorder"
	"AfriQuoteFeed/internal/registry"
)

// Options tunes an Ingestor.
type Options struct {
	StockInterval    model.Interval
	StockRange       model.Range
	CurrencyInterval model.Interval
	CurrencyRange    model.Range
	// Concurrency bounds in-flight fetches. Pacing is left to the Fetcher.
	Concurrency int
	Exporters   []persist.Exporter
}

// Ingestor runs batch and single-symbol fetches and persists their snapshots.
type Ingestor struct {
	fetcher  collector.Fetcher
	registry *registry.Registry
	writer   *persist.Writer
	recorder recorder.Recorder
	opts     Options

	now      func() time.Time
	newRunID func() string
}

// New creates an Ingestor. A nil recorder disables run history.
func New(f collector.Fetcher, reg *registry.Registry, w *persist.Writer, rec recorder.Recorder, opts Options) *Ingestor {
	if opts.StockInterval == "" {
		opts.StockInterval = model.Interval1d
	}
	if opts.StockRange == "" {
		opts.StockRange = model.Range5d
	}
	if opts.CurrencyInterval == "" {
		opts.CurrencyInterval = model.Interval1d
	}
	if opts.CurrencyRange == "" {
		opts.CurrencyRange = model.Range5d
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Ingestor{
		fetcher:  f,
		registry: reg,
		writer:   w,
		recorder: rec,
		opts:     opts,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

type job struct {
	kind string
	req  collector.Request
}

func (in *Ingestor) jobFor(symbol model.Symbol) job {
	if symbol.IsCurrencyPair() {
		return job{kind: KindCurrency, req: collector.Request{Symbol: symbol, Interval: in.opts.CurrencyInterval, Range: in.opts.CurrencyRange}}
	}
	return job{kind: KindStock, req: collector.Request{Symbol: symbol, Interval: in.opts.StockInterval, Range: in.opts.StockRange}}
}

// FetchAll fetches every registry symbol, equities first, and always writes the
// batch snapshot. Failed symbols are left out of the result and listed in the report.
func (in *Ingestor) FetchAll(ctx context.Context) (*model.FetchResult, *Report) {
	report := &Report{RunID: in.newRunID(), Mode: ModeBatch, StartedAt: in.now()}
	logger := log.With().Str("run_id", report.RunID).Logger()

	stocks, currencies := in.registry.Stocks(), in.registry.Currencies()
	logger.Info().Int("stocks", len(stocks)).Int("currencies", len(currencies)).Msg("batch fetch started")

	jobs := make([]job, 0, in.registry.Len())
	for _, s := range stocks {
		jobs = append(jobs, in.jobFor(s))
	}
	for _, s := range currencies {
		jobs = append(jobs, in.jobFor(s))
	}
	report.Outcomes = in.fetchEach(ctx, jobs)

	res := model.NewFetchResult(report.StartedAt)
	for _, o := range report.Outcomes {
		if !o.OK() {
			continue
		}
		if o.Kind == KindCurrency {
			res.Currencies = append(res.Currencies, DeriveCurrency(o.Series))
		} else {
			res.Stocks = append(res.Stocks, *o.Series)
		}
	}

	in.save(report, persist.BatchFilename(report.StartedAt), res)
	if report.Saved() && len(in.opts.Exporters) > 0 {
		report.ExportPaths, report.ExportErr = in.writer.ExportBatch(res, report.StartedAt, in.opts.Exporters)
		if report.ExportErr != nil {
			logger.Error().Err(report.ExportErr).Msg("snapshot export failed")
		}
	}
	in.finish(report)

	logger.Info().
		Int("stocks", len(res.Stocks)).
		Int("currencies", len(res.Currencies)).
		Int("failed", len(report.Failures())).
		Msg("batch fetch completed")
	return res, report
}

// FetchOne fetches a single symbol. Currency pairs go through the currency deriver.
// Nothing is written when the fetch fails.
func (in *Ingestor) FetchOne(ctx context.Context, symbol string) (*Report, error) {
	sym := model.Symbol(strings.TrimSpace(symbol))
	if sym == "" {
		return nil, errors.New("empty symbol")
	}

	report := &Report{RunID: in.newRunID(), Mode: ModeSingle, StartedAt: in.now()}
	j := in.jobFor(sym)
	log.Info().Str("run_id", report.RunID).Str("symbol", string(sym)).Str("kind", j.kind).Msg("single fetch started")

	o := in.fetch(ctx, j)
	report.Outcomes = []Outcome{o}
	if o.OK() {
		var payload any = o.Series
		if o.Kind == KindCurrency {
			snap := DeriveCurrency(o.Series)
			payload = &snap
		}
		in.save(report, persist.SymbolFilename(sym, report.StartedAt), payload)
	}
	in.finish(report)
	return report, nil
}

// fetchEach runs jobs on a bounded pool; outcomes keep the job order.
func (in *Ingestor) fetchEach(ctx context.Context, jobs []job) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	// a plain group: one symbol failing must not cancel the others
	var g errgroup.Group
	g.SetLimit(in.opts.Concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			outcomes[i] = in.fetch(ctx, j)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (in *Ingestor) fetch(ctx context.Context, j job) Outcome {
	o := Outcome{Symbol: j.req.Symbol, Kind: j.kind}
	if err := ctx.Err(); err != nil {
		o.Err = err
	} else {
		start := time.Now()
		o.Series, o.Err = in.fetcher.FetchSeries(ctx, j.req)
		o.Elapsed = time.Since(start)
		if o.Err == nil && o.Series == nil {
			o.Err = &collector.PayloadError{Symbol: j.req.Symbol, Reason: "empty response"}
		}
	}

	failure := o.Failure()
	metrics.RecordFetch(j.kind, string(failure), o.Elapsed)
	if failure != collector.FailureNone {
		log.Warn().Err(o.Err).Str("symbol", string(o.Symbol)).Str("failure", string(failure)).Msg("symbol skipped")
	}
	return o
}

// save writes the snapshot. A failure is logged and kept on the report; the run still completes.
func (in *Ingestor) save(report *Report, name string, payload any) {
	path, err := in.writer.Save(name, payload)
	metrics.RecordSnapshotWrite(err)
	if err != nil {
		report.SaveErr = err
		log.Error().Err(err).Str("run_id", report.RunID).Str("file", name).Msg("snapshot not saved")
		return
	}
	report.SnapshotPath = path
	log.Info().Str("run_id", report.RunID).Str("path", path).Msg("snapshot saved")
}

func (in *Ingestor) finish(report *Report) {
	report.FinishedAt = in.now()
	failed := len(report.Failures())
	metrics.RecordRun(report.Mode, report.FinishedAt.Sub(report.StartedAt), report.Fetched(), failed)

	for _, o := range report.Outcomes {
		if err := in.recorder.RecordOutcome(outcomeRecord(report.RunID, o)); err != nil {
			log.Warn().Err(err).Str("symbol", string(o.Symbol)).Msg("record outcome")
		}
	}
	run := &recorder.RunRecord{
		RunID:        report.RunID,
		Mode:         report.Mode,
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		Fetched:      report.Fetched(),
		Failed:       failed,
		SnapshotPath: report.SnapshotPath,
	}
	if report.SaveErr != nil {
		run.SaveError = report.SaveErr.Error()
	}
	if err := in.recorder.RecordRun(run); err != nil {
		log.Warn().Err(err).Str("run_id", report.RunID).Msg("record run")
	}
}

func outcomeRecord(runID string, o Outcome) *recorder.OutcomeRecord {
	rec := &recorder.OutcomeRecord{
		RunID:    runID,
		Symbol:   o.Symbol,
		Kind:     o.Kind,
		Failure:  string(o.Failure()),
		Duration: o.Elapsed,
	}
	if o.Err != nil {
		rec.Message = o.Err.Error()
		return rec
	}
	rec.Points = len(o.Series.Data)
	rec.Meta = o.Series.Meta
	if last, ok := o.Series.Last(); ok {
		rec.LastClose = last.Close
	}
	if change, err := calculator.LastChange(o.Series.Data); err == nil {
		rec.Change = &change
	}
	return rec
}
