package crawl

import (
	"context"
	"fmt"
	"os"

	"github.com/avolkov/contactsift/internal/model"
	"github.com/avolkov/contactsift/internal/worker"
)

// SiteProcessor crawls one website into a result, or nil
type SiteProcessor interface {
	Crawl(ctx context.Context, website string) *model.SiteResult
}

// ResultVerifier filters a crawled result down to its verified emails,
// returning nil when nothing survives
type ResultVerifier interface {
	VerifyResult(ctx context.Context, result *model.SiteResult) *model.SiteResult
}

// Runner fans out one crawl task per website, collects results in completion
// order and applies email verification to the survivors.
type Runner struct {
	crawler  SiteProcessor
	verifier ResultVerifier
	workers  int
	verbose  bool
}

// NewRunner creates a pipeline runner. workers <= 0 means one worker per
// website, so every site crawls concurrently and the per-host connection cap
// is the only fan-out bound.
func NewRunner(crawler SiteProcessor, verifier ResultVerifier, workers int, verbose bool) *Runner {
	return &Runner{
		crawler:  crawler,
		verifier: verifier,
		workers:  workers,
		verbose:  verbose,
	}
}

// crawlJob adapts one website to the worker pool
type crawlJob struct {
	website string
	crawler SiteProcessor
}

// crawlResult is the pool result for one website
type crawlResult struct {
	website string
	result  *model.SiteResult
	err     error
}

func (r *crawlResult) GetError() error {
	return r.err
}

// Execute crawls one site. A panic inside the crawl is converted into an
// error result so one site can never take down the run.
func (j *crawlJob) Execute(ctx context.Context) (res worker.Result) {
	defer func() {
		if p := recover(); p != nil {
			res = &crawlResult{website: j.website, err: fmt.Errorf("crawl panic: %v", p)}
		}
	}()

	return &crawlResult{
		website: j.website,
		result:  j.crawler.Crawl(ctx, j.website),
	}
}

// Run crawls all websites concurrently, then verifies emails sequentially
// across the collected results. The returned list contains only records with
// at least one verified email; an empty list means "no verified results".
func (r *Runner) Run(ctx context.Context, websites []string) []*model.SiteResult {
	if len(websites) == 0 {
		return nil
	}

	workers := r.workers
	if workers <= 0 {
		workers = len(websites)
	}

	pool := worker.NewPool(workers)
	pool.Start()

	for _, website := range websites {
		pool.Submit(&crawlJob{website: website, crawler: r.crawler})
	}

	var crawled []*model.SiteResult
	for _, res := range pool.Wait() {
		cr := res.(*crawlResult)
		if cr.err != nil {
			// One site's failure never affects another's
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", cr.website, cr.err)
			continue
		}
		if cr.result != nil {
			if r.verbose {
				fmt.Fprintf(os.Stderr, "✓ finished crawling: %s\n", cr.result.Website)
			}
			crawled = append(crawled, cr.result)
		}
	}

	// Verification is sequential across sites; the DNS-heavy part is
	// concurrent within each result.
	var verified []*model.SiteResult
	for _, result := range crawled {
		if vr := r.verifier.VerifyResult(ctx, result); vr != nil {
			verified = append(verified, vr)
		}
	}

	return verified
}
