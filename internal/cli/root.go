package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"photogrid/internal/cache"
	"photogrid/internal/config"
	"photogrid/internal/eventbus"
	"photogrid/internal/pixabay"
	"photogrid/internal/search"
)

// rateBurst is the number of requests allowed back to back
const rateBurst = 10

// Options holds the flags shared by every command
type Options struct {
	ConfigPath string
	EnvFile    string
}

// NewRootCommand builds the photogrid command tree
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "photogrid",
		Short: "photogrid - Pixabay photo search for the terminal",
		Long: `photogrid searches the Pixabay image API as you type. A query is sent once
typing pauses; answers to older queries are ignored. The layout demos show
grid, multi-section and nested-group compositions of the same descriptors
the photo mosaic uses.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file read before the environment")

	root.AddCommand(newSearchCommand(opts))
	root.AddCommand(newLayoutsCommand())
	root.AddCommand(newConfigCommand(opts))
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// readConfig loads the .env file, the config file and the environment.
// Environment variables win over the file. bus may be nil.
func readConfig(opts *Options, bus eventbus.EventBus) (*config.Config, config.ConfigService, error) {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return nil, nil, err
	}

	svc := config.NewConfigService(opts.ConfigPath, bus)
	cfg, err := svc.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}

// loadConfig is readConfig followed by validation
func loadConfig(opts *Options, bus eventbus.EventBus) (*config.Config, config.ConfigService, error) {
	cfg, svc, err := readConfig(opts, bus)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}

// newSearcher builds the Pixabay client behind the response cache. The
// returned function closes the cache.
func newSearcher(cfg *config.Config, configPath string, log zerolog.Logger) (search.Searcher, func() error, error) {
	client, err := pixabay.NewClient(cfg.APIKey,
		pixabay.WithBaseURL(cfg.BaseURL),
		pixabay.WithTimeout(cfg.Timeout()),
		pixabay.WithRateLimit(cfg.RequestsPerMinute, rateBurst),
		pixabay.WithDefaultTerm(cfg.DefaultTerm),
		pixabay.WithLogger(log),
	)
	if err != nil {
		if errors.Is(err, pixabay.ErrMissingAPIKey) {
			return nil, nil, fmt.Errorf("%w: set PIXABAY_API_KEY or api_key in %s", err, configPath)
		}
		return nil, nil, err
	}

	c, err := cache.Open(cfg.CacheOptions(configPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open response cache: %w", err)
	}
	log.Debug().Str("kind", cfg.Cache.Kind).Msg("response cache ready")
	return search.NewCachedSearcher(client, c, log), c.Close, nil
}
