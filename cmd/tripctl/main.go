// Command tripctl is a developer harness for the roadtrip client: it drives every
// client operation from the shell and can host the backend twin locally.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"roadtrip/internal/config"
	"roadtrip/internal/credential"
	"roadtrip/internal/logging"
	"roadtrip/internal/roadtrip"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiURL     string
	timeout    time.Duration

	// Logger
	logger *zap.Logger

	cfg        *config.Config
	client     *roadtrip.Client
	closeStore func() error
)

var rootCmd = &cobra.Command{
	Use:   "tripctl",
	Short: "tripctl - roadtrip API client harness",
	Long: `tripctl drives the roadtrip REST client from the command line.

The token obtained by 'tripctl login' is kept in the configured credential
store and sent raw in the Authorization header of every later call.
Results are printed as JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if apiURL != "" {
			cfg.API.BaseDomain = apiURL
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := logging.Initialize(cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		store, closer, err := credential.Open(cfg.Credentials)
		if err != nil {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
		closeStore = closer
		client = roadtrip.NewFromConfig(cfg, store)
		logging.Boot("tripctl %s against %s", cmd.CommandPath(), cfg.API.BaseDomain)
		logging.BootDebug("credential backend %s", cfg.Credentials.Backend)
		logger.Debug("client ready",
			zap.String("base", cfg.API.BaseDomain),
			zap.String("credentials", cfg.Credentials.Backend))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Override api.base_domain")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd)
	rootCmd.AddCommand(checklistCmd, routesCmd, overviewCmd)
	rootCmd.AddCommand(twinCmd)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "roadtrip.yaml"
	}
	return filepath.Join(home, ".roadtrip", "config.yaml")
}

// execute runs the command tree and releases the credential store and log files on
// every path. Cobra skips post-run hooks when a command fails.
func execute(ctx context.Context) error {
	defer cleanup()
	return rootCmd.ExecuteContext(ctx)
}

func cleanup() {
	if closeStore != nil {
		if err := closeStore(); err != nil && logger != nil {
			logger.Warn("closing credential store", zap.Error(err))
		}
		closeStore = nil
	}
	logging.CloseAll()
	if logger != nil {
		_ = logger.Sync()
	}
}

func main() {
	if err := execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func opContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", name, s)
	}
	return id, nil
}
