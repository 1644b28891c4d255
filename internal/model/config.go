package model

import "time"

// Config holds the complete pipeline configuration
type Config struct {
	HTTP        HTTPConfig      `yaml:"http" mapstructure:"http"`
	Verify      VerifyConfig    `yaml:"verify" mapstructure:"verify"`
	Concurrency Concurrency     `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Cache       CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Enrich      EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Output      OutputConfig    `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls the shared HTTP client used for all page fetches
type HTTPConfig struct {
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent       string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host" mapstructure:"max_conns_per_host"`
	HTTPProxy       string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy      string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy         string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// VerifyConfig controls email verification (MX lookups)
type VerifyConfig struct {
	Resolvers     []string      `yaml:"resolvers" mapstructure:"resolvers"`
	LookupTimeout time.Duration `yaml:"lookup_timeout" mapstructure:"lookup_timeout"`
	Workers       int           `yaml:"workers" mapstructure:"workers"`
	CacheTTL      time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// Concurrency controls cross-site parallelism. Contact-page fetches within
// one site are always sequential; this only bounds how many sites are
// crawled at once.
type Concurrency struct {
	CrawlWorkers int `yaml:"crawl_workers" mapstructure:"crawl_workers"`
}

// RateLimitConfig controls optional per-domain politeness limiting.
// RequestsPerSecond <= 0 disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls the in-run page cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// EnrichConfig controls optional LLM outreach-note generation.
// Disabled by default; never affects which records are kept.
type EnrichConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"-" mapstructure:"-"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OutputConfig controls output rendering
type OutputConfig struct {
	Verbose     bool `yaml:"verbose" mapstructure:"verbose"`
	SocialLinks bool `yaml:"social_links" mapstructure:"social_links"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:         15 * time.Second,
			UserAgent:       "contactsift/0.1 (+https://github.com/avolkov/contactsift)",
			MaxBodyBytes:    2_000_000,
			MaxConnsPerHost: 10,
		},
		Verify: VerifyConfig{
			Resolvers:     []string{"8.8.8.8:53", "1.1.1.1:53"},
			LookupTimeout: 5 * time.Second,
			Workers:       20,
			CacheTTL:      30 * time.Minute,
		},
		Concurrency: Concurrency{
			CrawlWorkers: 10,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0,
			BurstSize:         5,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Enrich: EnrichConfig{
			Enabled: false,
			Model:   "gpt-4o-mini",
		},
		Output: OutputConfig{
			Verbose:     false,
			SocialLinks: true,
		},
	}
}
