// pact-stub-server - serves canned responses from pact contract files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/schoderer/pact-stub-server/internal/storage"
	"github.com/schoderer/pact-stub-server/pkg/config"
	"github.com/schoderer/pact-stub-server/pkg/logging"
	"github.com/schoderer/pact-stub-server/pkg/pact"
	"github.com/schoderer/pact-stub-server/pkg/stub"
)

// Build-time variables set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

var (
	flagConfigFile string
	flagOpts       = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "pact-stub-server",
	Short: "Stub provider serving responses from pact contract files",
	Long: `pact-stub-server loads pact contract files and answers every incoming
HTTP request with the response of the best-matching recorded interaction.

Interactions can be filtered by provider state, either with a static
pattern or per request via a configurable header.`,
	Example: `  # Serve pacts from a directory on port 8080
  pact-stub-server --dir ./pacts --port 8080

  # Serve a single pact file with automatic CORS preflight responses
  pact-stub-server --file consumer-provider.json --cors

  # Restrict to interactions for a given provider state
  pact-stub-server --dir ./pacts --provider-state "account exists"

  # Let each request pick its provider state via a header
  pact-stub-server --dir ./pacts --provider-state-header-name X-Provider-State`,
	Version:       fmt.Sprintf("%s (commit %s)", Version, Commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagConfigFile, "config", "c", "", "Path to an options file (YAML or JSON)")
	flags.IntVarP(&flagOpts.Port, "port", "p", flagOpts.Port, "HTTP listen port (0 picks a free port)")
	flags.StringArrayVarP(&flagOpts.Files, "file", "f", nil, "Pact file to load (repeatable)")
	flags.StringArrayVarP(&flagOpts.Dirs, "dir", "d", nil, "Directory of pact files to load (repeatable)")
	flags.StringArrayVarP(&flagOpts.URLs, "url", "u", nil, "URL of a pact file to fetch (repeatable)")
	flags.StringVarP(&flagOpts.Extension, "extension", "e", flagOpts.Extension, "File extension to use when loading from a directory")
	flags.BoolVarP(&flagOpts.AutoCORS, "cors", "o", false, "Automatically respond to OPTIONS requests and return default CORS headers")
	flags.StringVarP(&flagOpts.ProviderState, "provider-state", "s", "", "Regex filtering interactions by provider state name")
	flags.StringVar(&flagOpts.ProviderStateHeaderName, "provider-state-header-name", "", "Request header that overrides the provider state filter per request")
	flags.BoolVar(&flagOpts.VerboseMismatchBodies, "verbose-mismatch-bodies", false, "Include full payload text in body mismatch diagnostics")
	flags.StringVarP(&flagOpts.LogLevel, "log-level", "l", flagOpts.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&flagOpts.LogFormat, "log-format", flagOpts.LogFormat, "Log format (text, json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(opts.LogLevel),
		Format: logging.ParseFormat(opts.LogFormat),
	})

	var stateFilter *regexp.Regexp
	if opts.ProviderState != "" {
		stateFilter, err = regexp.Compile(opts.ProviderState)
		if err != nil {
			return fmt.Errorf("invalid --provider-state pattern: %w", err)
		}
	}

	pacts, err := loadPacts(opts)
	if err != nil {
		return err
	}
	store := storage.NewInteractionStore(pacts)
	log.Info("loaded pacts", "sources", len(pacts), "interactions", store.Len())

	server := stub.NewServer(&stub.Config{
		Port:                  opts.Port,
		AutoCORS:              opts.AutoCORS,
		ProviderState:         stateFilter,
		ProviderStateHeader:   opts.ProviderStateHeaderName,
		VerboseMismatchBodies: opts.VerboseMismatchBodies,
	}, store, stub.WithLogger(log))

	if err := server.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// resolveOptions merges the options file (when given) with any flags the
// user set explicitly. Flags win.
func resolveOptions(cmd *cobra.Command) (*config.Options, error) {
	if flagConfigFile == "" {
		return flagOpts, nil
	}

	opts, err := config.LoadFromFile(flagConfigFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		opts.Port = flagOpts.Port
	}
	if flags.Changed("file") {
		opts.Files = flagOpts.Files
	}
	if flags.Changed("dir") {
		opts.Dirs = flagOpts.Dirs
	}
	if flags.Changed("url") {
		opts.URLs = flagOpts.URLs
	}
	if flags.Changed("extension") {
		opts.Extension = flagOpts.Extension
	}
	if flags.Changed("cors") {
		opts.AutoCORS = flagOpts.AutoCORS
	}
	if flags.Changed("provider-state") {
		opts.ProviderState = flagOpts.ProviderState
	}
	if flags.Changed("provider-state-header-name") {
		opts.ProviderStateHeaderName = flagOpts.ProviderStateHeaderName
	}
	if flags.Changed("verbose-mismatch-bodies") {
		opts.VerboseMismatchBodies = flagOpts.VerboseMismatchBodies
	}
	if flags.Changed("log-level") {
		opts.LogLevel = flagOpts.LogLevel
	}
	if flags.Changed("log-format") {
		opts.LogFormat = flagOpts.LogFormat
	}
	return opts, nil
}

// loadPacts loads every configured source in order: files, then
// directories, then URLs. Order matters, because load order is the
// tie-break when several interactions match a request equally well.
func loadPacts(opts *config.Options) ([]*pact.Pact, error) {
	var pacts []*pact.Pact

	for _, file := range opts.Files {
		p, err := pact.LoadFile(file)
		if err != nil {
			return nil, err
		}
		pacts = append(pacts, p)
	}
	for _, dir := range opts.Dirs {
		loaded, err := pact.LoadDir(dir, opts.Extension)
		if err != nil {
			return nil, err
		}
		pacts = append(pacts, loaded...)
	}
	for _, url := range opts.URLs {
		p, err := pact.LoadURL(url, nil)
		if err != nil {
			return nil, err
		}
		pacts = append(pacts, p)
	}
	return pacts, nil
}
