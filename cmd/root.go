package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/chris-regnier/dreamctl/internal/completion"
	"github.com/chris-regnier/dreamctl/internal/config"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/logging"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"github.com/chris-regnier/dreamctl/internal/storage/firestore"
	"github.com/chris-regnier/dreamctl/internal/storage/markdown"
	"github.com/chris-regnier/dreamctl/internal/storage/memory"
	"github.com/chris-regnier/dreamctl/internal/storage/sqlite"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

var (
	cfgFile        string
	jsonOutput     bool
	storageBackend string
	userFlag       string

	appConfig *config.Config
	logger    = zap.NewNop()
	store     storage.Storage
	svc       *journal.Service
	// clientErr explains why no completion client is available.
	clientErr error
)

var rootCmd = &cobra.Command{
	Use:   "dreamctl",
	Short: "A dream journal with AI interpretation",
	Long: `dreamctl records your dreams, asks a language model to interpret them and
offers lucid dreaming guidance, keeping everything in a local journal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if storageBackend != "" {
			cfg.Storage = storageBackend
		}
		if userFlag != "" {
			cfg.User = userFlag
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		appConfig = cfg

		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		store, err = openStore(cmd.Context(), cfg)
		if err != nil {
			return failure(err)
		}

		client, err := completion.New(cmd.Context(), completionConfig(cfg), logger)
		if err != nil {
			logger.Debug("completion client unavailable", zap.Error(err))
			client, clientErr = nil, err
		}

		svc = journal.New(store, client, logger, journal.Options{
			Timeout:     cfg.Completion.Timeout,
			Concurrency: cfg.Completion.Concurrency,
		})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		_ = logger.Sync()
		if store != nil {
			return store.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return listRun(cmd.Context(), os.Stdout, listOptions{limit: 20})
		}
		return ui.RunBrowser(svc, ui.BrowserConfig{
			UserID:   appConfig.User,
			MaxWidth: appConfig.MaxWidth,
			Theme:    ui.ResolveTheme(appConfig.Theme),
		})
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "storage backend (markdown|sqlite|memory|firestore)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "act as this user (default: config user or $USER)")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case "markdown":
		s, err := markdown.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing markdown storage: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing sqlite storage: %w", err)
		}
		return s, nil
	case "memory":
		return memory.New(), nil
	case "firestore":
		s, err := firestore.New(ctx, cfg.Firestore.ProjectID, cfg.Firestore.Collection)
		if err != nil {
			return nil, fmt.Errorf("initializing firestore storage: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
	}
}

func completionConfig(cfg *config.Config) completion.Config {
	return completion.Config{
		Provider:    cfg.Completion.Provider,
		Model:       cfg.Completion.Model,
		BaseURL:     cfg.Completion.BaseURL,
		APIKey:      cfg.Completion.APIKey,
		MaxTokens:   cfg.Completion.MaxTokens,
		Temperature: cfg.Completion.Temperature,
	}
}
