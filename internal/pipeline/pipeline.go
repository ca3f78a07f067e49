package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/zipcoords-etl/internal/domain"
	"github.com/couchcryptid/zipcoords-etl/internal/observability"
)

// RowReader yields the header and then the data rows of a tabular source.
type RowReader interface {
	Header() []string
	// Next returns io.EOF after the last row.
	Next() (domain.InputRow, error)
	// Line reports where the most recent row started, for diagnostics.
	Line() int
}

// MapWriter persists the finished lookup table.
type MapWriter interface {
	WriteMap(ctx context.Context, m domain.ZipMap) error
}

// Options tunes row validation.
type Options struct {
	// StrictKeys rejects keys longer than domain.KeyWidth instead of passing
	// them through unchanged.
	StrictKeys bool
}

// Converter turns gazetteer rows into a ZIP lookup table.
type Converter struct {
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Result summarizes one conversion run.
type Result struct {
	RowsRead   int
	Written    int
	Duplicates int
	Skipped    []domain.RowParseError
	Elapsed    time.Duration
}

// New creates a Converter with the given options and observability.
func New(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Converter {
	return &Converter{
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// Convert validates the header of src, folds every row into a ZipMap, and
// hands the map to dst. Rows with unusable coordinates are logged, counted
// in Result.Skipped, and dropped. A missing required column fails with a
// *domain.SchemaError before any row is read and before dst is touched.
func (c *Converter) Convert(ctx context.Context, src RowReader, dst MapWriter) (Result, error) {
	start := clock.Now()
	var res Result

	if err := domain.ValidateHeader(src.Header()); err != nil {
		return res, err
	}

	out := make(domain.ZipMap)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row after line %d: %w", src.Line(), err)
		}

		res.RowsRead++
		c.metrics.RowsRead.Inc()
		c.fold(out, row, src.Line(), &res)
	}

	if err := dst.WriteMap(ctx, out); err != nil {
		return res, err
	}

	res.Written = len(out)
	res.Elapsed = clock.Since(start)

	c.metrics.EntriesWritten.Add(float64(res.Written))
	c.metrics.ConversionDuration.Observe(res.Elapsed.Seconds())
	c.metrics.LastSuccess.Set(float64(clock.Now().Unix()))

	c.logger.Info("conversion complete",
		"rows_read", res.RowsRead,
		"written", res.Written,
		"skipped", len(res.Skipped),
		"duplicates", res.Duplicates,
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// fold parses one row into out. The last row for a key wins.
func (c *Converter) fold(out domain.ZipMap, row domain.InputRow, line int, res *Result) {
	key, coord, err := domain.ParseRow(row, c.opts.StrictKeys)
	if err != nil {
		var rowErr *domain.RowParseError
		if !errors.As(err, &rowErr) {
			rowErr = &domain.RowParseError{Key: row[domain.KeyColumn], Err: err}
		}
		rowErr.Line = line

		c.logger.Warn("skipping row with invalid coordinates",
			"line", line,
			"key", rowErr.Key,
			"field", rowErr.Field,
			"error", rowErr.Err,
		)
		c.metrics.RowsSkipped.Inc()
		res.Skipped = append(res.Skipped, *rowErr)
		return
	}

	if prev, dup := out[key]; dup {
		c.logger.Debug("duplicate key, later row wins",
			"line", line,
			"key", key,
			"previous", prev,
			"current", coord,
		)
		c.metrics.DuplicateKeys.Inc()
		res.Duplicates++
	}
	out[key] = coord
}
