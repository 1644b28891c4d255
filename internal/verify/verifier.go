package verify

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/avolkov/contactsift/internal/cache"
	"github.com/avolkov/contactsift/internal/model"
	"github.com/miekg/dns"
)

// lookupFunc reports whether a domain has at least one MX record
// (injectable for tests)
type lookupFunc func(ctx context.Context, domain string) bool

// Verifier filters SiteResults down to emails whose domains accept mail,
// judged by MX-record existence. That is a deliberate low-cost heuristic: it
// proves the domain is set up for mail, not that the mailbox exists.
type Verifier struct {
	lookup     lookupFunc
	maxWorkers int
	outcomes   cache.Cache
	cacheTTL   time.Duration
	verbose    bool
}

// NewVerifier creates a verifier from the verify section of the configuration
func NewVerifier(cfg model.VerifyConfig, verbose bool) *Verifier {
	maxWorkers := cfg.Workers
	if maxWorkers <= 0 {
		maxWorkers = 20
	}

	return &Verifier{
		lookup:     newMXLookup(cfg.Resolvers, cfg.LookupTimeout),
		maxWorkers: maxWorkers,
		outcomes:   cache.NewMemoryCache(cfg.CacheTTL, cfg.CacheTTL),
		cacheTTL:   cfg.CacheTTL,
		verbose:    verbose,
	}
}

// newMXLookup builds the real DNS lookup. Each configured resolver is tried
// in turn; any failure mode (timeout, NXDOMAIN, empty answer, resolver
// error) uniformly means "no MX".
func newMXLookup(resolvers []string, timeout time.Duration) lookupFunc {
	client := &dns.Client{Timeout: timeout}

	return func(ctx context.Context, domain string) bool {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
		msg.RecursionDesired = true

		for _, server := range resolvers {
			resp, _, err := client.ExchangeContext(ctx, msg, server)
			if err != nil || resp == nil || resp.Rcode != dns.RcodeSuccess {
				continue
			}
			for _, answer := range resp.Answer {
				if _, ok := answer.(*dns.MX); ok {
					return true
				}
			}
		}
		return false
	}
}

// domainHasMX consults the per-run cache before hitting the resolver
func (v *Verifier) domainHasMX(ctx context.Context, domain string) bool {
	if domain == "" {
		return false
	}

	key := cache.MXKey(domain)
	if raw, found := v.outcomes.Get(key); found {
		return len(raw) == 1 && raw[0] == '1'
	}

	ok := v.lookup(ctx, domain)

	outcome := []byte("0")
	if ok {
		outcome = []byte("1")
	}
	_ = v.outcomes.Set(key, outcome, v.cacheTTL)

	return ok
}

// VerifyResult replaces the result's emails with the verified subset.
// Returns nil when cleaning or verification leaves no emails; such results
// are dropped, never emptied-and-kept. All lookups for one result run
// concurrently, each DNS call in its own goroutine under the worker bound so
// a slow resolver never stalls unrelated work.
func (v *Verifier) VerifyResult(ctx context.Context, result *model.SiteResult) *model.SiteResult {
	if result == nil || len(result.Emails) == 0 {
		return nil
	}

	cleaned := CleanEmails(result.Emails)
	if len(cleaned) == 0 {
		if v.verbose {
			fmt.Fprintf(os.Stderr, "no clean emails for website: %s\n", result.Website)
		}
		return nil
	}

	outcomes := make([]bool, len(cleaned))
	semaphore := make(chan struct{}, v.maxWorkers)
	var wg sync.WaitGroup

	for i, email := range cleaned {
		wg.Add(1)
		go func(idx int, email string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			outcomes[idx] = v.domainHasMX(ctx, EmailDomain(email))
		}(i, email)
	}
	wg.Wait()

	verified := make([]string, 0, len(cleaned))
	for i, email := range cleaned {
		if outcomes[i] {
			verified = append(verified, email)
		}
	}

	if len(verified) == 0 {
		if v.verbose {
			fmt.Fprintf(os.Stderr, "all emails failed verification for website: %s\n", result.Website)
		}
		return nil
	}

	result.Emails = verified
	return result
}
