// Package main provides the flowcheck CLI, which drives real browsers
// through the signup journey of a deployed environment and reports every
// wait, retry and failure along the way. Workers run concurrently, each
// against its own browser session.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/flowcheck/pkg/browser"
	appconfig "github.com/entrhq/flowcheck/pkg/config"
	"github.com/entrhq/flowcheck/pkg/flow"
	"github.com/entrhq/flowcheck/pkg/locator"
	"github.com/entrhq/flowcheck/pkg/logging"
	"github.com/entrhq/flowcheck/pkg/report"
	"github.com/entrhq/flowcheck/pkg/testdata"
)

const version = "0.1.0"

// Default patterns masking sensitive typed payloads in reports.
var defaultRedactions = []string{"*password*", "*secret*", "*token*"}

// Config holds the application configuration
type Config struct {
	ConfigPath  string
	Locators    string
	Environment string
	Workers     int
	BrowserKind string
	Headed      bool
	OutDir      string
	Profiles    string
	EmailDomain string
	Verbose     bool
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("flowcheck v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}

	ok, err := run(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowcheck: %v\n", err)
		os.Exit(2)
	}
	if !ok {
		os.Exit(1)
	}
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.ConfigPath, "config", "", "Path to config file (default: ~/.flowcheck/config.json)")
	flag.StringVar(&config.Locators, "locators", "locators.yaml", "Path to the YAML locator file")
	flag.StringVar(&config.Environment, "env", "", "Environment to verify (default: config default)")
	flag.IntVar(&config.Workers, "workers", 1, "Number of concurrent signup runs")
	flag.StringVar(&config.BrowserKind, "browser", "", "Browser engine: chromium, firefox or webkit (default: config)")
	flag.BoolVar(&config.Headed, "headed", false, "Run with a visible browser window")
	flag.StringVar(&config.OutDir, "out", "", "Report output directory (default: flowcheck-report-<timestamp>)")
	flag.StringVar(&config.Profiles, "profiles", "", "JSON fixture of signup profiles (default: generated per worker)")
	flag.StringVar(&config.EmailDomain, "email-domain", "example.com", "Domain for generated signup emails")
	flag.BoolVar(&config.Verbose, "verbose", false, "Print every trace event, not just retries and failures")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "flowcheck - browser verification of the signup flow\n\n")
		fmt.Fprintf(os.Stderr, "Usage: flowcheck [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  flowcheck -locators locators.yaml -env staging\n")
		fmt.Fprintf(os.Stderr, "  flowcheck -workers 4 -browser firefox\n")
		fmt.Fprintf(os.Stderr, "  flowcheck -headed -verbose -out ./report\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := os.Stat(c.Locators); err != nil {
		return fmt.Errorf("locator file error: %w", err)
	}
	if c.OutDir == "" {
		c.OutDir = fmt.Sprintf("flowcheck-report-%s", time.Now().Format("20060102-150405"))
	}
	return nil
}

// workerResult is one worker's final outcome.
type workerResult struct {
	worker  string
	result  flow.Result
	err     error
	elapsed time.Duration
}

// run executes the verification across N workers and reports whether every
// run passed.
func run(config *Config) (bool, error) {
	logger, logErr := logging.NewLogger("main")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", logErr)
	}
	defer logger.Close()

	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return false, fmt.Errorf("failed to initialize configuration: %w", err)
	}
	browserCfg := appconfig.GetBrowser()
	environments := appconfig.GetEnvironments()

	envName := config.Environment
	if envName == "" {
		envName = environments.Default()
	}
	env, ok := environments.Get(envName)
	if !ok {
		return false, fmt.Errorf("environment %q is not configured", envName)
	}

	kind := browser.Kind(browserCfg.Kind())
	if config.BrowserKind != "" {
		kind = browser.Kind(config.BrowserKind)
	}
	if !kind.Valid() {
		return false, fmt.Errorf("unknown browser kind %q", kind)
	}

	locators, err := locator.Load(config.Locators)
	if err != nil {
		return false, err
	}

	profiles, err := loadOrGenerateProfiles(config)
	if err != nil {
		return false, err
	}

	redactor, err := report.NewRedactor(defaultRedactions)
	if err != nil {
		return false, fmt.Errorf("failed to compile redaction patterns: %w", err)
	}
	jsonl, err := report.NewJSONLReporter(config.OutDir, redactor)
	if err != nil {
		return false, err
	}
	defer jsonl.Close()
	console := report.NewConsoleReporter(os.Stdout, redactor, config.Verbose)
	sink := report.MultiSink{jsonl, console}

	launcher := browser.NewPlaywrightLauncher()
	registry := browser.NewRegistry(launcher)

	// Teardown runs on interrupt too, so half-finished runs still close
	// their browsers and flush the report.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
			logger.Warnf("interrupted, releasing %d sessions", registry.Size())
			if err := registry.ReleaseAll(); err != nil {
				logger.Errorf("release on interrupt: %v", err)
			}
			_ = launcher.Stop()
			jsonl.Close()
			os.Exit(130)
		case <-done:
		}
	}()
	defer close(done)

	poller := browser.NewPoller(browserCfg.PollInterval(), sink)
	executor := browser.NewExecutor(poller, browserCfg.ConditionTimeout(), sink)
	if !browserCfg.ScreenshotOnFailure() {
		executor.Sink = noShotSink{sink}
	}
	policy := browser.RetryPolicy{
		MaxAttempts: browserCfg.RetryAttempts(),
		Delay:       browserCfg.RetryDelay(),
	}
	opts := browser.LaunchOptions{
		Headless: browserCfg.Headless() && !config.Headed,
		Timeout:  browserCfg.NavigationTimeout(),
	}

	logger.Infof("run %s: %d workers, %s against %s (%s)",
		logging.GetRunID(), config.Workers, kind, envName, env.SignupURL())

	results := make([]workerResult, config.Workers)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			worker := fmt.Sprintf("w%d", i+1)
			start := time.Now()
			result, err := runWorker(worker, registry, executor, policy, kind, opts,
				browserCfg.NavigationTimeout(), locators, env.SignupURL(), profiles[i])
			results[i] = workerResult{worker: worker, result: result, err: err, elapsed: time.Since(start)}
		}(i)
	}
	wg.Wait()

	if err := registry.ReleaseAll(); err != nil {
		logger.Errorf("release all: %v", err)
	}
	if err := launcher.Stop(); err != nil {
		logger.Errorf("stop launcher: %v", err)
	}

	passed := printSummary(results, config.OutDir)
	logger.Infof("finished: %d/%d passed, report in %s", passed, len(results), config.OutDir)
	return passed == len(results), nil
}

// runWorker acquires a session, walks one profile through the signup flow,
// and always releases the session before returning.
func runWorker(worker string, registry *browser.Registry, executor *browser.Executor,
	policy browser.RetryPolicy, kind browser.Kind, opts browser.LaunchOptions,
	navTimeout time.Duration, locators *locator.Repository, signupURL string,
	profile testdata.Profile) (flow.Result, error) {

	session, err := registry.Acquire(worker, kind, opts)
	if err != nil {
		return flow.Result{Profile: profile}, err
	}
	defer func() {
		if err := registry.Release(worker); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: release %s: %v\n", worker, err)
		}
	}()

	driver := browser.NewDriver(executor, session, policy)
	driver.NavigationTimeout = navTimeout
	return flow.Run(driver, locators, signupURL, profile)
}

// loadOrGenerateProfiles returns one profile per worker.
func loadOrGenerateProfiles(config *Config) ([]testdata.Profile, error) {
	if config.Profiles == "" {
		profiles := make([]testdata.Profile, config.Workers)
		for i := range profiles {
			profiles[i] = testdata.Generate(config.EmailDomain)
		}
		return profiles, nil
	}

	loaded, err := testdata.LoadProfiles(config.Profiles)
	if err != nil {
		return nil, err
	}
	if len(loaded) < config.Workers {
		return nil, fmt.Errorf("profile fixture has %d profiles, need %d", len(loaded), config.Workers)
	}
	return loaded[:config.Workers], nil
}

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// printSummary renders the per-worker table and returns how many passed.
func printSummary(results []workerResult, outDir string) int {
	fmt.Println()
	fmt.Println(headerStyle.Render("Signup verification"))

	passed := 0
	for _, r := range results {
		elapsed := mutedStyle.Render(fmt.Sprintf("(%.1fs)", r.elapsed.Seconds()))
		if r.err == nil {
			passed++
			fmt.Printf("  %s %s %s %s\n", passStyle.Render("PASS"), r.worker, mutedStyle.Render(r.result.Email), elapsed)
			continue
		}
		fmt.Printf("  %s %s %s\n", failStyleRender(r.err), r.worker, elapsed)
		fmt.Printf("       %s\n", r.err)
	}

	fmt.Printf("\n%d/%d passed, report in %s\n", passed, len(results), mutedStyle.Render(outDir))
	return passed
}

// failStyleRender tags the failure with its classified kind when one exists.
func failStyleRender(err error) string {
	if kind, ok := browser.FailureKindOf(err); ok {
		return failStyle.Render("FAIL " + string(kind))
	}
	return failStyle.Render("FAIL")
}

// noShotSink forwards events but drops screenshot requests, for runs with
// screenshot-on-failure disabled.
type noShotSink struct {
	report.Sink
}

func (noShotSink) Screenshot(string, func(path string) error) {}
