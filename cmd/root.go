package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/amatino/amatino"
	"github.com/s0up4200/amatino/api"
	"github.com/s0up4200/amatino/config"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	requester *api.Client

	debugAPI bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "amatino",
	Short: "A command line client for the Amatino accounting API",
	Long: `amatino talks to the Amatino double-entry accounting API. It creates and
stores a session, then signs every request with it. Typed commands cover
common reads and the request command reaches anything else.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., ~/.amatino and /etc/amatino)")
	rootCmd.PersistentFlags().BoolVar(&debugAPI, "debug-api", false, "send requests to the local debug endpoint")

	// Add subcommands
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(entityCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration and builds the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override debug endpoint from command line if specified
	if cmd.Flags().Changed("debug-api") {
		cfg.API.Debug = debugAPI
	}

	// Create Amatino API client
	requester, err = newRequester(cfg.API)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	logger.Debug().Str("endpoint", requester.BaseURL()).Msg("API client ready")
	return nil
}

func newRequester(c config.APIConfig) (*api.Client, error) {
	opts := []api.Option{
		api.WithDebug(c.Debug),
		api.WithTimeout(c.Timeout),
		api.WithUserAgent(userAgent(c.UserAgent)),
	}
	if c.Endpoint != "" {
		opts = append(opts, api.WithEndpoint(c.Endpoint))
	}
	return api.NewClient(logger, opts...)
}

// sessionClient loads the saved session and returns a client signing with it
func sessionClient() (*amatino.Client, error) {
	session, err := amatino.LoadSession(cfg.Session.File)
	if err != nil {
		return nil, fmt.Errorf("no usable session at %s, run 'amatino session create': %w", cfg.Session.File, err)
	}
	return amatino.New(requester, session, logger), nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, plain when stderr is not a terminal
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
