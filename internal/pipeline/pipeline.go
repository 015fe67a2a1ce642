// Package pipeline runs the batch cleaning flow: parallel normalization of
// every row, then an optional sequential fuzzy-grouping pass.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/namecleaner/internal/dedupe"
	"github.com/sells-group/namecleaner/internal/normalize"
)

// Options configures one batch run.
type Options struct {
	Group       bool // assign canonical representatives
	Threshold   int  // similarity threshold, 0–100 inclusive
	Concurrency int  // normalization workers (<1 means 1)
}

// Row pairs an input row with its cleaned and canonical values.
type Row struct {
	Index     int    `json:"index"`
	Raw       string `json:"raw"`
	Cleaned   string `json:"cleaned"`
	Canonical string `json:"canonical,omitempty"`
}

// Result holds the outcome of one batch run.
type Result struct {
	RunID           string        `json:"run_id"`
	Rows            []Row         `json:"rows"`
	Representatives int           `json:"representatives,omitempty"`
	Elapsed         time.Duration `json:"-"`
}

// Run cleans raws in input order. Normalization is parallel across rows
// (output keyed by row index); grouping is inherently sequential. The
// threshold is validated before any row is processed.
func Run(ctx context.Context, raws []string, n *normalize.Normalizer, opts Options) (*Result, error) {
	if opts.Group {
		if err := dedupe.ValidateThreshold(opts.Threshold); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	runID := uuid.NewString()

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	rows := make([]Row, len(raws))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, raw := range raws {
		i, raw := i, raw
		g.Go(func() error {
			rows[i] = Row{Index: i, Raw: raw, Cleaned: n.Clean(raw)}
			return nil
		})
	}
	_ = g.Wait() // workers never fail; Clean is total

	result := &Result{RunID: runID, Rows: rows}

	if opts.Group {
		cleaned := make([]string, len(rows))
		for i := range rows {
			cleaned[i] = rows[i].Cleaned
		}

		canonical, err := dedupe.Assign(cleaned, opts.Threshold)
		if err != nil {
			return nil, err
		}

		seen := make(map[string]bool)
		for i := range rows {
			rows[i].Canonical = canonical[i]
			if canonical[i] != "" && !seen[canonical[i]] {
				seen[canonical[i]] = true
				result.Representatives++
			}
		}
	}

	result.Elapsed = time.Since(start)
	zap.L().Info("clean batch complete",
		zap.String("run_id", runID),
		zap.Int("rows", len(rows)),
		zap.Bool("grouped", opts.Group),
		zap.Int("representatives", result.Representatives),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}
