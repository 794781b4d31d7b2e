// Package cli implements the shelf command-line interface: the one-shot
// commands, the interactive menu and the HTTP server.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/shelf/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries a process exit code out of a command. msg, when set,
// is printed to stderr by Run.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit %d: %s", e.code, e.msg)
}

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, msg: fmt.Sprintf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, msg: fmt.Sprintf(format, args...)}
}

// errNoCommand is returned when shelf runs without a subcommand.
var errNoCommand = errors.New("no command given")

// options holds global flag values and state shared by subcommands.
type options struct {
	configDir string
	dataFile  string
	backend   string
	logLevel  string

	config *viper.Viper
	logger zerolog.Logger
}

// NewRootCmd creates the top-level "shelf" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	o := &options{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "shelf",
		Short: "Shelf tracks a small library catalog",
		Long: `Shelf keeps a catalog of books keyed by integer ID in a flat text file.
Each command loads the file, applies at most one change, and writes it back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errNoCommand
		},
	}

	root.PersistentFlags().StringVar(&o.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&o.dataFile, "data-file", "", "catalog data file (default: $(CWD)/books.txt)")
	root.PersistentFlags().StringVar(&o.backend, "backend", "", "storage backend: text or sqlite (default: text)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(o))
	root.AddCommand(newListCmd(o))
	root.AddCommand(newSearchCmd(o))
	root.AddCommand(newTableCmd(o))
	root.AddCommand(newAddCmd(o))
	root.AddCommand(newDeleteCmd(o))
	root.AddCommand(newIssueCmd(o))
	root.AddCommand(newReturnCmd(o))
	root.AddCommand(newInteractiveCmd(o))
	root.AddCommand(newServeCmd(o))

	return root
}

// Run executes the root command with args and returns the process exit
// code. Argument errors print the failing command's usage to stderr.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if err == nil {
		return exitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(stderr, ee.msg)
		}
		return ee.code
	}

	if !errors.Is(err, errNoCommand) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	fmt.Fprint(stderr, cmd.UsageString())
	return exitUserError
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// setup loads config.yaml and builds the logger.
func (o *options) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(o.configDir)
	if err != nil {
		return sysError("resolve config dir: %s", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError("load config: %s", err)
	}
	o.config = cfg

	level := o.logLevel
	if level == "" {
		level = cfg.GetString(cfgKeyLogLevel)
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return userError("%s", err)
	}
	o.logger = logger.With().Str("cmd", cmd.Name()).Logger()
	o.logger.Debug().Str("config_dir", configDir).Msg("configuration loaded")
	return nil
}
