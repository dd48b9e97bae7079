// Package cli is the clientdash command line: the dashboard TUI, one-shot
// store commands and the mock push server.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/clientdash/internal/config"
	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/logging"
	"github.com/Makepad-fr/clientdash/internal/ui"
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// app carries per-invocation state shared by every command.
type app struct {
	v   *viper.Viper
	cfg *config.Config

	cfgFile string
	noColor bool
}

// NewRootCmd builds the command tree. Each call has its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "clientdash",
		Short: "Client confirmation dashboard",
		Long: `clientdash shows clients and their confirmation status, lets you
confirm or reset them, and keeps the view in sync with pushed updates.

Run without a subcommand to open the dashboard.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              usageArgs(cobra.NoArgs),
		PersistentPreRunE: a.initConfig,
		RunE:              a.runDash,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/clientdash/config.yaml)")
	pf.String("store-url", "", "remote store base URL (empty uses the built-in mock store)")
	pf.String("seed-file", "", "JSON file seeding the mock store")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.noColor, "no-color", false, "disable ANSI colors")
	_ = a.v.BindPFlag("store.url", pf.Lookup("store-url"))
	_ = a.v.BindPFlag("store.seed_file", pf.Lookup("seed-file"))
	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))

	root.AddCommand(
		a.newDashCmd(),
		a.newListCmd(),
		a.newSetCmd(),
		a.newExportCmd(),
		a.newServeCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	config.SetDefaultsOn(a.v)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(config.ConfigDir())
	}

	a.v.SetEnvPrefix("CLIENTDASH")
	// CLIENTDASH_SYNC_REFRESH_MODE for sync.refresh_mode
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.LoadFrom(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	ui.SetTheme(cfg.UI.Theme)
	if a.noColor {
		ui.SetColorForcing(false, true)
	}
	return nil
}

// logger opens the command logger. Interactive commands log to a file
// because the terminal belongs to the TUI.
func (a *app) logger(interactive bool) (*logging.Logger, error) {
	dir := a.cfg.Logging.Dir
	if dir == "" && interactive {
		dir = config.StateDir()
	}
	return logging.NewLogger(dir, a.cfg.Logging.Level)
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	ui.Fail(stderr, err.Error())
	return exitCode(err)
}

// usageError marks bad invocations: unknown flags, wrong argument counts.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{fmt.Errorf("%w\n\nUsage:\n  %s", err, cmd.UseLine())}
		}
		return nil
	}
}

func exitCode(err error) int {
	var ue usageError
	if errors.As(err, &ue) || errors.Is(err, errors.ErrInvalidInput) {
		return ExitUsage
	}
	return ExitError
}
