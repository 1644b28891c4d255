package extract

import (
	"net/url"
	"sort"
	"strings"
)

// PageLocator finds candidate contact-page links in HTML
type PageLocator struct{}

// NewPageLocator creates a page locator
func NewPageLocator() *PageLocator {
	return &PageLocator{}
}

// Locate returns candidate contact-page URLs: every anchor whose visible
// text or href contains "contact" (case-insensitive), resolved to absolute.
// When the heuristic finds nothing it synthesizes exactly one fallback, the
// base URL joined with the relative path "contact". Best effort: the result
// may include pages that are not contact pages, or miss the real one.
func (l *PageLocator) Locate(htmlContent, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return []string{}
	}

	candidates := make(map[string]struct{})
	walkAnchors(htmlContent, func(href, text string) {
		if !strings.Contains(strings.ToLower(text), "contact") &&
			!strings.Contains(strings.ToLower(href), "contact") {
			return
		}
		if resolved := resolveURL(base, href); resolved != "" {
			candidates[resolved] = struct{}{}
		}
	})

	if len(candidates) == 0 {
		fallback := base.ResolveReference(&url.URL{Path: "contact"})
		return []string{fallback.String()}
	}

	urls := make([]string, 0, len(candidates))
	for u := range candidates {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
