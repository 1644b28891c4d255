package model

// ContactInfo holds the contact details extracted from a single page.
// Emails and SocialLinks are deduplicated exact strings.
type ContactInfo struct {
	Emails      []string `json:"emails"`
	SocialLinks []string `json:"social_links"`
}

// SiteResult is the per-website output record. It exists only when at least
// one email or social link was found across the homepage and contact pages.
// After verification its Emails field holds exactly the verified subset.
type SiteResult struct {
	Website     string   `json:"website"`
	Emails      []string `json:"emails"`
	SocialLinks []string `json:"social_links,omitempty"`
}
