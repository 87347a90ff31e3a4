package historical

import (
	"context"
	"log/slog"
	"time"

	"github.com/sabarim/metaldata/internal/config"
	"github.com/sabarim/metaldata/internal/metals"
	"github.com/sabarim/metaldata/internal/table"
)

// Fetcher returns the raw price table page for a symbol
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (string, error)
}

// Exporter mirrors a merged record somewhere else
type Exporter interface {
	Export(metal metals.Metal, rec *Record) (int, error)
}

// Updater runs the fetch, clean and merge steps for each metal in turn
type Updater struct {
	fetcher  Fetcher
	store    *Store
	exporter Exporter
	metals   []metals.Metal
	delay    time.Duration
}

// NewUpdater creates an updater from the configuration
func NewUpdater(cfg *config.Config, fetcher Fetcher) (*Updater, error) {
	u := &Updater{
		fetcher: fetcher,
		store:   NewStore(cfg.Storage.DataDir),
		metals:  metals.ForSymbols(cfg.Run.Symbols),
		delay:   time.Duration(cfg.Run.RequestDelay) * time.Millisecond,
	}

	if cfg.Storage.ParquetEnabled {
		exporter, err := NewParquetExporter(cfg.Storage.ParquetDir)
		if err != nil {
			return nil, err
		}
		u.exporter = exporter
	}

	return u, nil
}

// Run processes every configured metal once. A failing metal is logged and
// recorded in the summary, the remaining metals are still processed.
func (u *Updater) Run(ctx context.Context) Summary {
	var summary Summary

	for i, metal := range u.metals {
		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "run cancelled", "remaining", len(u.metals)-i, "err", err)
			break
		}

		outcome := u.update(ctx, metal)
		summary.Outcomes = append(summary.Outcomes, outcome)

		if u.delay > 0 && i < len(u.metals)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(u.delay):
			}
		}
	}

	return summary
}

func (u *Updater) update(ctx context.Context, metal metals.Metal) Outcome {
	outcome := Outcome{Metal: metal}
	logger := slog.With("symbol", metal.Symbol, "metal", metal.Name)

	fail := func(msg string, err error) Outcome {
		logger.ErrorContext(ctx, msg, "err", err)
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	logger.InfoContext(ctx, "fetching price table")
	body, err := u.fetcher.Fetch(ctx, metal.Symbol)
	if err != nil {
		return fail("error fetching data", err)
	}

	fresh, err := table.Parse(body)
	if err != nil {
		return fail("error parsing data", err)
	}
	outcome.Fresh = fresh.Len()

	result, err := u.store.MergeAndPersist(metal, fresh)
	if err != nil {
		return fail("error saving data", err)
	}
	if result.Skipped {
		logger.InfoContext(ctx, "no fresh rows, record left untouched")
		outcome.Status = StatusSkipped
		return outcome
	}

	outcome.Added = result.Added
	outcome.Total = result.Total
	outcome.Status = StatusUnchanged
	if result.Added > 0 {
		outcome.Status = StatusUpdated
	}
	logger.InfoContext(ctx, "record saved", "fresh", result.Fresh, "added", result.Added, "total", result.Total)

	if u.exporter != nil {
		n, err := u.exporter.Export(metal, result.Record)
		if err != nil {
			logger.WarnContext(ctx, "error exporting parquet", "err", err)
		} else {
			outcome.Exported = n
		}
	}

	return outcome
}
