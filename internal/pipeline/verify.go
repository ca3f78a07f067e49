package pipeline

import (
	"context"
	"sort"

	"github.com/couchcryptid/zipcoords-etl/internal/domain"
)

// VerifyReport compares a lookup document with what converting its source
// would produce now.
type VerifyReport struct {
	Expected   int
	Actual     int
	Missing    []string // keys the source yields but the document lacks
	Extra      []string // keys in the document the source does not yield
	Mismatched []string // keys whose coordinates differ
}

// Passed reports whether the document matches the source exactly.
func (r VerifyReport) Passed() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.Mismatched) == 0
}

// captureWriter keeps the converted map in memory instead of persisting it.
type captureWriter struct {
	m domain.ZipMap
}

func (w *captureWriter) WriteMap(_ context.Context, m domain.ZipMap) error {
	w.m = m
	return nil
}

// Verify converts src in memory and diffs the result against actual.
// Coordinates must match exactly. Key lists in the report are sorted.
func (c *Converter) Verify(ctx context.Context, src RowReader, actual domain.ZipMap) (VerifyReport, error) {
	capture := &captureWriter{}
	if _, err := c.Convert(ctx, src, capture); err != nil {
		return VerifyReport{}, err
	}
	expected := capture.m

	report := VerifyReport{Expected: len(expected), Actual: len(actual)}
	for key, want := range expected {
		got, ok := actual[key]
		switch {
		case !ok:
			report.Missing = append(report.Missing, key)
		case got != want:
			report.Mismatched = append(report.Mismatched, key)
		}
	}
	for key := range actual {
		if _, ok := expected[key]; !ok {
			report.Extra = append(report.Extra, key)
		}
	}

	sort.Strings(report.Missing)
	sort.Strings(report.Extra)
	sort.Strings(report.Mismatched)

	if !report.Passed() {
		c.logger.Warn("lookup document differs from source",
			"missing", len(report.Missing),
			"extra", len(report.Extra),
			"mismatched", len(report.Mismatched),
		)
	}
	return report, nil
}
