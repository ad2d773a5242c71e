package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	usermode "github.com/wozniakbe/user-mode"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	backend  string
	filePath string
	logLevel string

	logger *slog.Logger
	store  *usermode.Store
}

// Execute runs modectl with the process arguments.
func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "modectl",
		Short: "Read and toggle per-user processing modes",
		Long: `modectl manages the real-time / background mode stored for each user.

Users with no stored mode report the default mode (background unless
MODE_DEFAULT says otherwise). Every change rewrites the backing store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return a.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.backend, "backend", "", "storage backend: file, dynamodb or sqlite (env MODE_BACKEND)")
	root.PersistentFlags().StringVarP(&a.filePath, "file", "f", "", "backing file for the file backend (env MODE_PREFS_PATH)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")

	root.AddCommand(
		newGetCmd(a),
		newSetCmd(a),
		newToggleCmd(a),
		newListCmd(a),
		newVersionCmd(),
	)

	return root
}

// needsStore reports whether cmd reads or writes modes. Help, version and
// shell completion, including cobra's hidden __complete commands, do not.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch name := c.Name(); {
		case name == "version", name == "help", name == "completion":
			return false
		case strings.HasPrefix(name, cobra.ShellCompRequestCmd):
			return false
		}
	}
	return true
}

// open loads configuration, applies flag overrides and builds the store.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := usermode.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = strings.ToLower(a.backend)
	}
	if flags.Changed("file") {
		cfg.FilePath = a.filePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = usermode.ParseLogLevel(a.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx := cmd.Context()
	backend, err := usermode.OpenBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}

	a.store, err = usermode.NewStore(ctx, backend,
		usermode.WithDefaultMode(cfg.DefaultMode),
		usermode.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	a.logger.Debug("store opened", "backend", cfg.Backend)
	return nil
}
