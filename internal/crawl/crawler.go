package crawl

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/avolkov/contactsift/internal/extract"
	"github.com/avolkov/contactsift/internal/model"
)

// SiteCrawler processes one website: homepage, then each discovered contact
// page, accumulating emails and social links. It owns its accumulator sets,
// so concurrent crawlers share no mutable state.
type SiteCrawler struct {
	fetcher  *Fetcher
	contacts *extract.ContactExtractor
	locator  *extract.PageLocator
	verbose  bool
}

// NewSiteCrawler creates a site crawler
func NewSiteCrawler(fetcher *Fetcher, contacts *extract.ContactExtractor, locator *extract.PageLocator, verbose bool) *SiteCrawler {
	return &SiteCrawler{
		fetcher:  fetcher,
		contacts: contacts,
		locator:  locator,
		verbose:  verbose,
	}
}

// NormalizeWebsiteURL prepends http:// when the identifier carries no scheme.
// No other validation happens here.
func NormalizeWebsiteURL(website string) string {
	if strings.HasPrefix(website, "http://") || strings.HasPrefix(website, "https://") {
		return website
	}
	return "http://" + website
}

// Crawl fetches the homepage and contact-page candidates of one website and
// returns the accumulated contact info, or nil when the site is unreachable
// or yields neither emails nor social links. Failures are silent: an
// unreachable site or candidate simply contributes nothing.
//
// Contact pages are fetched sequentially on purpose. Parallelism lives
// across sites, not within one; this keeps the per-site blast radius at a
// single connection while the per-host cap governs the rest.
func (c *SiteCrawler) Crawl(ctx context.Context, website string) *model.SiteResult {
	website = NormalizeWebsiteURL(website)

	if c.verbose {
		fmt.Fprintf(os.Stderr, "Processing website: %s\n", website)
	}

	home := c.fetcher.Fetch(ctx, website)
	if !home.OK() {
		if c.verbose {
			fmt.Fprintf(os.Stderr, "  homepage unreachable (%s)\n", home.Reason)
		}
		return nil
	}

	emails := make(map[string]struct{})
	social := make(map[string]struct{})

	info := c.contacts.Extract(home.Body, website)
	mergeInto(emails, info.Emails)
	mergeInto(social, info.SocialLinks)

	for _, candidate := range c.locator.Locate(home.Body, website) {
		if c.verbose {
			fmt.Fprintf(os.Stderr, "  fetching contact page: %s\n", candidate)
		}

		page := c.fetcher.Fetch(ctx, candidate)
		if !page.OK() {
			continue
		}

		pageInfo := c.contacts.Extract(page.Body, candidate)
		mergeInto(emails, pageInfo.Emails)
		mergeInto(social, pageInfo.SocialLinks)
	}

	if len(emails) == 0 && len(social) == 0 {
		if c.verbose {
			fmt.Fprintf(os.Stderr, "  no contact info found for: %s\n", website)
		}
		return nil
	}

	return &model.SiteResult{
		Website:     website,
		Emails:      sortedKeys(emails),
		SocialLinks: sortedKeys(social),
	}
}

func mergeInto(set map[string]struct{}, values []string) {
	for _, v := range values {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
