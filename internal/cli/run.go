package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/avolkov/contactsift/internal/cache"
	"github.com/avolkov/contactsift/internal/crawl"
	"github.com/avolkov/contactsift/internal/enrich"
	"github.com/avolkov/contactsift/internal/extract"
	"github.com/avolkov/contactsift/internal/model"
	"github.com/avolkov/contactsift/internal/sheet"
	"github.com/avolkov/contactsift/internal/verify"
	"github.com/avolkov/contactsift/internal/worker"
	"github.com/spf13/cobra"
)

var (
	outputPath   string
	fetchTimeout time.Duration
	userAgent    string
	maxBytes     int64
	maxPerHost   int
	concurrency  int
	rps          float64
	burst        int
	noCache      bool
	noSocial     bool
	resolvers    []string
	dnsTimeout   time.Duration
	dnsWorkers   int
	httpProxy    string
	httpsProxy   string
	enrichOn     bool
	enrichModel  string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <input.csv>",
	Short: "Crawl the websites in a CSV and write verified contact records",
	Long: `Run reads the website column from the input CSV, crawls every site
concurrently (homepage plus discovered contact pages), extracts emails and
social links, verifies email domains via MX lookup, and writes one CSV row
per website that kept at least one verified email.

Example:
  contactsift run leads.csv
  contactsift run leads.csv --output verified.csv --concurrency 50
  contactsift run leads.csv --rate 2 --resolver 9.9.9.9:53`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Output flags
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output CSV path (default: <input-stem>_emails.<ext>)")
	runCmd.Flags().BoolVar(&noSocial, "no-social", false, "omit the social_links column")

	// HTTP flags
	runCmd.Flags().DurationVar(&fetchTimeout, "timeout", 15*time.Second, "per-fetch timeout")
	runCmd.Flags().StringVar(&userAgent, "ua", "contactsift/0.1 (+https://github.com/avolkov/contactsift)", "HTTP User-Agent")
	runCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per page")
	runCmd.Flags().IntVar(&maxPerHost, "max-conns-per-host", 10, "max simultaneous connections per destination host")
	runCmd.Flags().Float64Var(&rps, "rate", 0, "per-host requests per second (0 = unlimited)")
	runCmd.Flags().IntVar(&burst, "burst", 5, "per-host rate limit burst size")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-run page cache")
	runCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	runCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Concurrency flags
	runCmd.Flags().IntVar(&concurrency, "concurrency", 0, "max sites crawled at once (0 = all at once, bounded per host)")

	// Verification flags
	runCmd.Flags().StringSliceVar(&resolvers, "resolver", []string{"8.8.8.8:53", "1.1.1.1:53"}, "DNS resolvers for MX lookups")
	runCmd.Flags().DurationVar(&dnsTimeout, "dns-timeout", 5*time.Second, "per-lookup DNS timeout")
	runCmd.Flags().IntVar(&dnsWorkers, "dns-workers", 20, "max concurrent MX lookups per site")

	// Enrichment flags
	runCmd.Flags().BoolVar(&enrichOn, "enrich", false, "add an LLM-generated outreach_note column (needs OPENAI_API_KEY)")
	runCmd.Flags().StringVar(&enrichModel, "enrich-model", "gpt-4o-mini", "model for outreach notes")
}

func runRun(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := outputPath
	if output == "" {
		output = sheet.DefaultOutputPath(input)
	}

	// No overall deadline: a slow site or resolver only delays its own task
	ctx := context.Background()

	// Build configuration from defaults + flags
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = fetchTimeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.MaxConnsPerHost = maxPerHost
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Verify.Resolvers = resolvers
	cfg.Verify.LookupTimeout = dnsTimeout
	cfg.Verify.Workers = dnsWorkers
	cfg.Concurrency.CrawlWorkers = concurrency
	cfg.RateLimit.RequestsPerSecond = rps
	cfg.RateLimit.BurstSize = burst
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.SocialLinks = !noSocial

	if enrichOn {
		cfg.Enrich.Enabled = true
		cfg.Enrich.Model = enrichModel
		cfg.Enrich.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Enrich.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	// Input errors are fatal: no progress is possible without websites
	websites, err := sheet.ReadWebsites(input)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  contactsift\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", input)
	fmt.Fprintf(os.Stderr, "  Websites:     %d\n", len(websites))
	fmt.Fprintf(os.Stderr, "  Output file:  %s\n", output)
	fmt.Fprintf(os.Stderr, "\n")

	runner := buildRunner(cfg)
	results := runner.Run(ctx, websites)

	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "No websites with verified email contact info were found.\n")
		return nil
	}

	var notes []string
	if cfg.Enrich.Enabled {
		noter, err := enrich.NewNoter(cfg.Enrich)
		if err != nil {
			return fmt.Errorf("enrichment setup: %w", err)
		}
		notes = noter.NoteAll(ctx, results, func(website string, err error) {
			fmt.Fprintf(os.Stderr, "Warning: note generation failed for %s: %v\n", website, err)
		})
	}

	if err := sheet.WriteResults(output, results, cfg.Output.SocialLinks, notes); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Run Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Websites in:  %d\n", len(websites))
	fmt.Fprintf(os.Stderr, "  Verified:     %d\n", len(results))
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", output)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// buildRunner wires the pipeline components from one config
func buildRunner(cfg *model.Config) *crawl.Runner {
	var limiter *worker.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	}

	var pages cache.Cache
	if cfg.Cache.Enabled {
		pages = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
	}

	fetcher := crawl.NewFetcher(cfg.HTTP, limiter, pages, cfg.Cache.TTL)
	crawler := crawl.NewSiteCrawler(
		fetcher,
		extract.NewContactExtractor(nil),
		extract.NewPageLocator(),
		cfg.Output.Verbose,
	)
	verifier := verify.NewVerifier(cfg.Verify, cfg.Output.Verbose)

	return crawl.NewRunner(crawler, verifier, cfg.Concurrency.CrawlWorkers, cfg.Output.Verbose)
}
