// Package cli implements the postcraft command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// IdentityFetcher resolves the member a credential belongs to.
type IdentityFetcher interface {
	FetchIdentity(ctx context.Context, cred *domain.Credential) (domain.PersonID, error)
}

// LedgerWatcher reports ledger changes made by other processes.
type LedgerWatcher interface {
	Watch(ctx context.Context, onChange func([]string)) error
}

// Services holds the core services the commands drive.
type Services struct {
	Settings  driving.SettingsService
	Session   driving.AuthSession
	Workflow  driving.PublishWorkflow
	Generator driving.ContentGenerator
	Keywords  driving.KeywordService
	Identity  IdentityFetcher
	// Watcher is optional; only file-backed ledgers provide one.
	Watcher LedgerWatcher
	// Close releases resources such as database handles. May be nil.
	Close func() error
}

// BuildOptions are the persistent flags that influence service construction.
type BuildOptions struct {
	ConfigDir string
	DryRun    bool
}

// ServiceBuilder constructs services once flags are parsed.
type ServiceBuilder func(opts BuildOptions) (*Services, error)

// Service references used by the commands.
var (
	settingsService  driving.SettingsService
	sessionService   driving.AuthSession
	workflowService  driving.PublishWorkflow
	generatorService driving.ContentGenerator
	keywordService   driving.KeywordService
	identityFetcher  IdentityFetcher
	ledgerWatcher    LedgerWatcher
	closeServices    func() error

	serviceBuilder ServiceBuilder
)

// Persistent flags.
var (
	verbose   bool
	configDir string
	dryRun    bool
)

var rootCmd = &cobra.Command{
	Use:   "postcraft",
	Short: "Draft LinkedIn posts from keywords and publish them",
	Long: `postcraft turns a few keywords into a LinkedIn post using an LLM,
lets you review and edit the draft, and publishes it with your account.

Keywords that were published before are remembered and flagged, so the
same topic is not posted twice by accident.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if closeServices != nil {
			return closeServices()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.postcraft)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "keep keyword and config changes in memory for this run")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceBuilder registers the constructor invoked before each command runs.
func SetServiceBuilder(builder ServiceBuilder) {
	serviceBuilder = builder
}

// SetServices injects services directly, bypassing the builder.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	sessionService = s.Session
	workflowService = s.Workflow
	generatorService = s.Generator
	keywordService = s.Keywords
	identityFetcher = s.Identity
	ledgerWatcher = s.Watcher
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if serviceBuilder == nil {
		return nil
	}
	services, err := serviceBuilder(BuildOptions{ConfigDir: configDir, DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("initialise services: %w", err)
	}
	SetServices(services)
	return nil
}

// errNotConfigured reports a service missing from the wiring.
func errNotConfigured(name string) error {
	return fmt.Errorf("%s service not configured", name)
}

// commandContext returns the command's context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseKeywordFlag splits the comma-separated -k value.
func parseKeywordFlag(value string) ([]string, error) {
	keywords := domain.ParseKeywords(value)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: pass them with -k \"AI, innovation\"", domain.ErrNoKeywords)
	}
	return keywords, nil
}

// Hint suggests a next step for well-known failures, or returns "".
func Hint(err error) string {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return "Run 'postcraft config show' to see what is missing."
	case errors.Is(err, domain.ErrLLMUnavailable):
		return "Set llm.provider and llm.api_key with 'postcraft config set'."
	case errors.Is(err, domain.ErrAuthExpired):
		return "Your LinkedIn session expired. Run the command again to sign in."
	default:
		return ""
	}
}
