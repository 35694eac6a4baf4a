package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/postcraft/internal/adapters/driven/ai"
	"github.com/custodia-labs/postcraft/internal/adapters/driven/config/file"
	ledgerfile "github.com/custodia-labs/postcraft/internal/adapters/driven/ledger/file"
	"github.com/custodia-labs/postcraft/internal/adapters/driven/linkedin"
	"github.com/custodia-labs/postcraft/internal/adapters/driven/oauth"
	"github.com/custodia-labs/postcraft/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/postcraft/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/cli"
	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/core/services"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// homeEnv overrides the postcraft home directory.
const homeEnv = "POSTCRAFT_HOME"

// resolveHome picks the home directory: flag, then environment, then ~/.postcraft.
func resolveHome(flagDir string) (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if dir := os.Getenv(homeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, file.DefaultDirName), nil
}

// buildServices wires the adapters into the core services.
func buildServices(opts cli.BuildOptions) (*cli.Services, error) {
	home, err := resolveHome(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("postcraft home: %s", home)

	fileStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	var configStore driven.ConfigStore = fileStore
	if opts.DryRun {
		configStore = memory.NewOverlay(fileStore)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	llm, err := ai.CreateLLMService(context.Background(), &settings.LLM)
	if err != nil {
		logger.Warn("LLM backend unavailable: %v", err)
		llm = nil
	}

	ledger, watcher, closeLedger, err := openLedger(home, settings.Ledger, opts.DryRun)
	if err != nil {
		return nil, err
	}

	session := services.NewOAuthSession(oauth.NewTokenExchanger(settings.LinkedIn, settings.Timeout))
	client := linkedin.NewClient(linkedin.Config{
		BaseURL: settings.LinkedIn.APIBaseURL,
		Version: settings.LinkedIn.APIVersion,
		Timeout: settings.Timeout,
	})
	generator := services.NewContentGenerator(llm, prompts)
	workflow := services.NewPublishWorkflow(
		session, generator, client, ledger,
		services.WithStepTimeout(settings.Timeout),
	)

	s := &cli.Services{
		Settings:  settingsService,
		Session:   session,
		Workflow:  workflow,
		Generator: generator,
		Keywords:  services.NewKeywordService(ledger),
		Identity:  client,
		Close:     closeLedger,
	}
	if watcher != nil {
		s.Watcher = watcher
	}
	return s, nil
}

// openLedger opens the configured keyword ledger. Dry runs keep it in memory.
func openLedger(
	home string,
	cfg domain.LedgerSettings,
	dryRun bool,
) (driven.KeywordLedger, *ledgerfile.KeywordLedger, func() error, error) {
	noop := func() error { return nil }

	if dryRun {
		logger.Info("dry run: keywords and config changes are not persisted")
		ledger, err := dryRunLedger(home, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return ledger, nil, noop, nil
	}

	switch cfg.Backend {
	case domain.LedgerBackendSQLite:
		store, err := sqlite.NewStore(sqliteDir(home, cfg))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		return store.KeywordLedger(), nil, store.Close, nil

	case domain.LedgerBackendFile, "":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(home, ledgerfile.DefaultFileName)
		}
		ledger, err := ledgerfile.NewKeywordLedger(path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open keyword ledger: %w", err)
		}
		return ledger, ledger, noop, nil

	default:
		return nil, nil, nil, fmt.Errorf("%w: unknown ledger.backend %q", domain.ErrConfiguration, cfg.Backend)
	}
}

// dryRunLedger copies the configured ledger into memory so duplicate checks
// see earlier posts while nothing is written back. A SQLite database that
// does not exist yet is not created.
func dryRunLedger(home string, cfg domain.LedgerSettings) (*memory.KeywordLedger, error) {
	if cfg.Backend == domain.LedgerBackendSQLite {
		_, err := os.Stat(filepath.Join(sqliteDir(home, cfg), sqlite.DatabaseName))
		if errors.Is(err, fs.ErrNotExist) {
			return memory.NewKeywordLedger(), nil
		}
	}

	ledger, _, closeFn, err := openLedger(home, cfg, false)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	seed, err := ledger.List(context.Background())
	if err != nil {
		return nil, fmt.Errorf("read keyword ledger: %w", err)
	}
	logger.Debug("dry run: loaded %d keywords", len(seed))
	return memory.NewKeywordLedger(seed...), nil
}

func sqliteDir(home string, cfg domain.LedgerSettings) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(home, "data")
}
