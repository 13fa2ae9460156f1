package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hackinsight/internal/analyzer"
	"hackinsight/internal/browser"
	"hackinsight/internal/config"
	"hackinsight/internal/crawler"
	"hackinsight/internal/extractor"
	"hackinsight/internal/fetcher"
	"hackinsight/internal/formatter"
	"hackinsight/internal/model"
	"hackinsight/internal/report"
	"hackinsight/internal/scraper"
	"hackinsight/internal/search"
	"hackinsight/internal/store"
)

var version = "dev"

const ideaCount = 5

var (
	searchMode    bool
	outputDir     string
	reportsDir    string
	showUI        bool
	delay         time.Duration
	logLevel      string
	noLLM         bool
	autoSelect    bool
	generateIdeas bool
	maxResults    int
	outputFormat  string
	proxyURL      string
	timeout       time.Duration
	historyLimit  int
)

var (
	errScrapeFailed = eris.New("scrape failed")
	errInterrupted  = eris.New("interrupted")
	errNoSelection  = eris.New("no hackathon selected")
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "hackinsight [URL]",
		Short:   "Scrape Devpost hackathons and projects into reports",
		Version: version,
		Long: `hackinsight collects hackathon and project data from Devpost with a
headless browser, saves the result as JSON, and writes a Markdown report.
With an LLM key configured, project descriptions are enriched with a
structured analysis.`,
		Example: `  # Scrape a hackathon project gallery
  hackinsight https://aifest.devpost.com/project-gallery

  # Scrape a single project
  hackinsight https://devpost.com/software/example-project

  # Search recent AI hackathons and let the LLM pick one
  hackinsight --search --auto-select --generate-ideas

  # Print the result as JSON without LLM enrichment
  hackinsight --no-llm -f json https://aifest.devpost.com/project-gallery

  # Show recent runs
  hackinsight history`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().BoolVar(&searchMode, "search", false, "Search Devpost for hackathons and pick one to scrape")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for raw JSON results (default data/raw)")
	rootCmd.Flags().StringVar(&reportsDir, "reports-dir", "", "Directory for Markdown reports (default reports)")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().DurationVar(&delay, "delay", crawler.DefaultDelay, "Delay after each project page")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&noLLM, "no-llm", false, "Disable LLM enrichment, selection and idea generation")
	rootCmd.Flags().BoolVar(&autoSelect, "auto-select", false, "Let the LLM choose among search results")
	rootCmd.Flags().BoolVar(&generateIdeas, "generate-ideas", false, "Append generated project ideas to the report")
	rootCmd.Flags().IntVar(&maxResults, "max-results", search.DefaultMaxResults, "Max search results to list")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Also print the result to stdout (json, markdown, text)")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "Proxy URL (e.g. http://127.0.0.1:7890)")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Page navigation timeout")

	historyCmd := &cobra.Command{
		Use:          "history",
		Short:        "List recent scrape runs",
		Args:         cobra.NoArgs,
		RunE:         runHistory,
		SilenceUsage: true,
	}
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and lets explicitly set flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.DataDir = outputDir
	}
	if flags.Changed("reports-dir") {
		cfg.Output.ReportsDir = reportsDir
	}
	if flags.Changed("showui") {
		cfg.Browser.Headless = !showUI
	}
	if flags.Changed("delay") {
		cfg.Crawl.Delay = delay
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("max-results") {
		cfg.Search.MaxResults = maxResults
	}
	if flags.Changed("proxy") {
		cfg.Browser.ProxyURL = proxyURL
	}
	if flags.Changed("timeout") {
		cfg.Crawl.NavigationTimeout = timeout
	}
	if noLLM {
		cfg.Analyzer.Enabled = false
	}

	if err := config.InitLogger(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	if err := validateArgs(args); err != nil {
		return err
	}
	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := browser.New(browser.Config{
		Headless:      cfg.Browser.Headless,
		ProxyURL:      cfg.Browser.ProxyURL,
		BinPath:       cfg.Browser.BinPath,
		LaunchTimeout: cfg.Browser.LaunchTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			zap.L().Warn("close browser failed", zap.Error(err))
		}
	}()

	base := fetcher.New(b, fetcher.Options{
		UserAgent:         cfg.Browser.UserAgent,
		NavigationTimeout: cfg.Crawl.NavigationTimeout,
	})
	projectPages := base.WithSettle(cfg.Crawl.ProjectSettle)
	galleryPages := base.WithSettle(cfg.Crawl.GallerySettle)

	gen, err := analyzer.NewGenerator(ctx, cfg.Analyzer)
	if err != nil {
		return err
	}
	defer analyzer.CloseGenerator(gen)

	var enricher extractor.Enricher
	if gen != nil {
		enricher = analyzer.New(gen)
		fmt.Fprintf(os.Stderr, "LLM enrichment enabled (%s)\n", cfg.Analyzer.Provider)
	}
	ex := extractor.New(enricher)

	c := crawler.New(galleryPages, projectPages, ex)
	c.Delay = cfg.Crawl.Delay
	assembler := scraper.New(c)

	var target string
	if searchMode {
		collector := search.New(galleryPages, ex)
		target, err = pickHackathon(ctx, cfg, collector, gen)
		if err != nil {
			return err
		}
	} else {
		target = strings.TrimSpace(args[0])
	}

	fmt.Fprintf(os.Stderr, "Scraping %s (%s)\n", target, scraper.Kind(target))
	result := assembler.Scrape(ctx, target)
	if ctx.Err() != nil {
		return errInterrupted
	}

	return finish(ctx, cfg, gen, target, result)
}

// finish persists the result, writes the report and records the run.
func finish(ctx context.Context, cfg *config.Config, gen analyzer.Generator, target string, result model.ScrapeResult) error {
	now := time.Now()

	outputPath := model.OutputFilename(target, cfg.Output.DataDir, now)
	if err := model.SaveResult(result, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Result saved to: %s\n", outputPath)

	var reportPath string
	if result.Success && result.Hackathon != nil {
		h := result.Hackathon
		var ideas []analyzer.Idea
		if generateIdeas {
			ideas = analyzer.NewIdeaGenerator(gen).GenerateIdeas(ctx, h, ideaCount)
		}
		reportPath = report.Filename(h.Name, cfg.Output.ReportsDir, now)
		if err := report.New().Write(h, ideas, generateIdeas, reportPath); err != nil {
			zap.L().Error("write report failed", zap.String("path", reportPath), zap.Error(err))
			reportPath = ""
		} else {
			fmt.Fprintf(os.Stderr, "Report written to: %s\n", reportPath)
		}
		report.Summary(os.Stderr, h)
	}

	recordRun(ctx, cfg.Store.Path, store.RunFromResult(scraper.Kind(target), result, outputPath, reportPath))

	if outputFormat != "" {
		out, err := formatter.Format(result, outputFormat)
		if err != nil {
			return eris.Wrap(err, "failed to format output")
		}
		fmt.Println(out)
	}

	if !result.Success {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.ErrorMessage)
		return errScrapeFailed
	}
	return nil
}

// recordRun adds the run to the history database. History is best effort.
func recordRun(ctx context.Context, path string, run store.Run) {
	st, err := store.Open(ctx, path)
	if err != nil {
		zap.L().Warn("open history failed", zap.String("path", path), zap.Error(err))
		return
	}
	defer st.Close()
	if _, err := st.Record(ctx, run); err != nil {
		zap.L().Warn("record run failed", zap.Error(err))
	}
}

// pickHackathon lists search results and returns the URL to scrape. Quitting
// the prompt returns errNoSelection.
func pickHackathon(ctx context.Context, cfg *config.Config, collector *search.Collector, gen analyzer.Generator) (string, error) {
	results, err := collector.Search(ctx, cfg.Search.URL, cfg.Search.MaxResults)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", eris.New("no hackathons found")
	}
	report.SearchResults(os.Stderr, results)

	var idx int
	if autoSelect {
		var reasoning string
		idx, reasoning, _ = analyzer.NewHackathonSelector(gen).Select(ctx, results)
		fmt.Fprintf(os.Stderr, "Selected #%d %s\n", idx+1, results[idx].Name)
		if reasoning != "" {
			fmt.Fprintf(os.Stderr, "Reasoning: %s\n", reasoning)
		}
	} else {
		idx, err = prompt(os.Stdin, os.Stderr, len(results))
		if err != nil {
			return "", err
		}
	}

	return collector.DiscoverGallery(ctx, results[idx].URL), nil
}

// prompt asks for a 1-based choice until it gets a valid one. "q" and end
// of input return errNoSelection.
func prompt(in io.Reader, out io.Writer, n int) (int, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Select a hackathon [1-%d] or 'q' to quit: ", n)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, eris.Wrap(err, "read selection")
			}
			return 0, errNoSelection
		}
		idx, chosen, valid := parseChoice(scanner.Text(), n)
		if !valid {
			fmt.Fprintln(out, "Invalid selection")
			continue
		}
		if !chosen {
			return 0, errNoSelection
		}
		return idx, nil
	}
}

// parseChoice reports the 0-based index, whether a hackathon was chosen, and
// whether the input was acceptable at all.
func parseChoice(input string, n int) (idx int, chosen, valid bool) {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "q") {
		return 0, false, true
	}
	v, err := strconv.Atoi(input)
	if err != nil || v < 1 || v > n {
		return 0, false, false
	}
	return v - 1, true, true
}

func validateArgs(args []string) error {
	if searchMode {
		if len(args) > 0 {
			return eris.New("--search does not take a URL")
		}
		return nil
	}
	if autoSelect {
		return eris.New("--auto-select requires --search")
	}
	if len(args) == 0 {
		return eris.New("a Devpost URL is required (or use --search)")
	}
	if !strings.Contains(args[0], "devpost.com") {
		return eris.Errorf("not a Devpost URL: %s", args[0])
	}
	return nil
}

func validateFormat(format string) error {
	switch format {
	case "", formatter.FormatJSON, formatter.FormatMarkdown, formatter.FormatText:
		return nil
	}
	return eris.Errorf("invalid output format: %s", format)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "No runs recorded yet")
		return nil
	}
	report.History(os.Stdout, runs)
	return nil
}
