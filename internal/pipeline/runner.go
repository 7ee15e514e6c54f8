package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Debesyla/dago-domenai/internal/schema"
)

// BatchSummary aggregates the outcome of one batch run.
type BatchSummary struct {
	Total   int
	Success int
	Partial int
	Errored int
	Skipped int
	Elapsed time.Duration
}

// Runner drives a pipeline over a list of domains sequentially. Domains
// are independent; a failure on one never stops the batch, and context
// cancellation stops it between domains.
type Runner struct {
	pipeline *Pipeline
	store    Store
	log      *zap.SugaredLogger
}

// NewRunner builds a batch runner sharing the pipeline's store.
func NewRunner(p *Pipeline, store Store, log *zap.SugaredLogger) *Runner {
	return &Runner{pipeline: p, store: store, log: log}
}

// Run processes every domain in order and returns the finalized results
// with an aggregate summary. Each result is persisted as it completes;
// persistence failures are logged and the batch continues.
func (r *Runner) Run(ctx context.Context, domains []string) ([]*schema.Result, BatchSummary) {
	start := time.Now()
	results := make([]*schema.Result, 0, len(domains))
	summary := BatchSummary{Total: len(domains)}

	for i, domain := range domains {
		if err := ctx.Err(); err != nil {
			r.log.Warnw("batch interrupted", "processed", i, "remaining", len(domains)-i)
			summary.Total = i
			break
		}

		r.log.Infow("processing domain", "domain", domain, "index", i+1, "total", len(domains))
		result := r.pipeline.Process(ctx, domain)
		results = append(results, result)

		switch result.Meta.Status {
		case schema.StatusSuccess:
			summary.Success++
		case schema.StatusPartial:
			summary.Partial++
		case schema.StatusError:
			summary.Errored++
		case schema.StatusSkipped:
			summary.Skipped++
		}

		r.persist(ctx, domain, result)
	}

	summary.Elapsed = time.Since(start)
	return results, summary
}

func (r *Runner) persist(ctx context.Context, domain string, result *schema.Result) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveResult(ctx, domain, result.Meta.Task, result); err != nil {
		r.log.Warnw("failed to persist result", "domain", domain, "error", err)
	}
}
