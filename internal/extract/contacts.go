package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/avolkov/contactsift/internal/model"
	"golang.org/x/net/html"
)

// emailPattern matches local@domain.tld shaped tokens. It runs over the raw
// HTML (scripts, comments and attributes included), so it can surface
// non-address tokens that happen to match; the verify package filters that
// noise downstream.
var emailPattern = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)

// DefaultSocialDomains is the process-wide list of recognized social
// platforms, matched as substrings against absolute link URLs. Immutable for
// the process lifetime.
var DefaultSocialDomains = []string{
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"linkedin.com",
	"youtube.com",
}

// ContactExtractor extracts emails and social links from HTML
type ContactExtractor struct {
	socialDomains []string
}

// NewContactExtractor creates a contact extractor. An empty domain list
// falls back to DefaultSocialDomains.
func NewContactExtractor(socialDomains []string) *ContactExtractor {
	if len(socialDomains) == 0 {
		socialDomains = DefaultSocialDomains
	}
	return &ContactExtractor{socialDomains: socialDomains}
}

// Extract pulls emails and social links out of a page. Malformed HTML and
// unparseable URLs degrade to empty results, never to an error.
func (e *ContactExtractor) Extract(htmlContent, baseURL string) model.ContactInfo {
	info := model.ContactInfo{
		Emails:      dedupeSorted(emailPattern.FindAllString(htmlContent, -1)),
		SocialLinks: []string{},
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return info
	}

	social := make(map[string]struct{})
	walkAnchors(htmlContent, func(href, _ string) {
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		for _, domain := range e.socialDomains {
			if strings.Contains(resolved, domain) {
				social[resolved] = struct{}{}
				break
			}
		}
	})

	for link := range social {
		info.SocialLinks = append(info.SocialLinks, link)
	}
	sort.Strings(info.SocialLinks)

	return info
}

// walkAnchors invokes fn for every <a> element carrying an href, passing the
// href value and the anchor's visible text. Parse failures are silent: the
// html package builds a best-effort tree for almost any input.
func walkAnchors(htmlContent string, fn func(href, text string)) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := ""
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = strings.TrimSpace(attr.Val)
				}
			}
			if href != "" {
				fn(href, anchorText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// anchorText collects the text content of a node, including nested elements
func anchorText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// resolveURL resolves a relative href against a base URL, keeping only
// fetchable http/https targets
func resolveURL(base *url.URL, href string) string {
	if strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			unique = append(unique, v)
		}
	}
	sort.Strings(unique)
	return unique
}
