package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/tabalign/internal/align"
	"github.com/dshills/tabalign/internal/app"
	"github.com/dshills/tabalign/internal/config"
	alignhandler "github.com/dshills/tabalign/internal/dispatcher/handlers/align"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// stdinPath names standard input as the FILE argument.
const stdinPath = "-"

var errUsage = errors.New("usage")

// reportedError wraps an error whose status message was already written.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// cli holds the streams and global flags shared by every command.
type cli struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	configOpts []config.Option

	configPath string
	logLevel   string
	tabSize    int
	timeout    time.Duration

	// started is set once a command body runs; errors before that come
	// from argument parsing.
	started bool
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...config.Option) int {
	c := &cli{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		configOpts: opts,
	}
	root := c.rootCmd()
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	if !c.started {
		return exitUsage
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case align.IsUserInputError(err),
		errors.Is(err, app.ErrInvalidPosition),
		errors.Is(err, errUsage):
		return exitUsage
	default:
		return exitError
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tabalign",
		Short: "Align text into columns",
		Long: `tabalign pads lines with spaces so that a delimiter, or a set of
cursors, lines up in one column.

With a single cursor the character after it is the delimiter; with a
selection the selected text is. Following lines join while they contain
the delimiter. With several cursors the cursors themselves are aligned.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "configuration file (TOML or YAML)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.IntVar(&c.tabSize, "tab-size", 0, "tab width used to measure cursor columns")
	pf.DurationVar(&c.timeout, "timeout", 0, "time allowed for one command (0 disables)")

	root.AddCommand(
		c.alignCmd("last", alignhandler.ActionAlignLast,
			"Align on the delimiter, treating repeated delimiters as one", true),
		c.alignCmd("first", alignhandler.ActionAlignFirst,
			"Align on every occurrence of the delimiter", true),
		c.alignCmd("cursors", alignhandler.ActionAlignCursors,
			"Align several cursors to the same column", false),
		c.luaCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) alignCmd(name, action, short string, withTo bool) *cobra.Command {
	var (
		at    []string
		to    string
		write bool
	)
	cmd := &cobra.Command{
		Use:   name + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := c.openDocument(a, args[0])
			if err != nil {
				return err
			}
			if err := placeCursors(doc, at, to); err != nil {
				return err
			}

			result, err := a.Execute(doc, action)
			if err != nil {
				return c.report(result.Message, err)
			}
			c.status(result.Message)
			return c.writeDocument(doc, write)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&at, "at", nil, "cursor position LINE:COL (repeatable)")
	if withTo {
		f.StringVar(&to, "to", "", "end of a selection starting at --at (LINE:COL, exclusive)")
	}
	f.BoolVarP(&write, "write", "w", false, "rewrite FILE in place instead of printing it")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func (c *cli) luaCmd() *cobra.Command {
	var (
		at    []string
		write bool
	)
	cmd := &cobra.Command{
		Use:   "lua SCRIPT FILE",
		Short: "Run a Lua script against FILE",
		Long: `Run a Lua script against FILE. The script sees the document through
the tabalign table (add_cursor, select, align, align_cursors, align_lines,
text, status). print writes to standard error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := c.openDocument(a, args[1])
			if err != nil {
				return err
			}
			if err := placeCursors(doc, at, ""); err != nil {
				return err
			}

			status, err := a.RunScript(doc, args[0])
			if err != nil {
				return err
			}
			c.status(status)
			return c.writeDocument(doc, write)
		},
	}
	cmd.Flags().StringArrayVar(&at, "at", nil, "initial cursor position LINE:COL (repeatable)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite FILE in place instead of printing it")
	return cmd
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.started = true
			fmt.Fprintf(c.stdout, "tabalign %s\n", version)
			fmt.Fprintf(c.stdout, "Commit: %s\n", commit)
			fmt.Fprintf(c.stdout, "Built: %s\n", date)
		},
	}
}

// newApp loads the configuration with flag overrides and builds the app.
func (c *cli) newApp(cmd *cobra.Command) (*app.App, error) {
	c.started = true

	opts := append([]config.Option{}, c.configOpts...)
	path := c.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if path != "" {
		opts = append(opts, config.WithFile(path))
	}

	flags := cmd.Flags()
	if flags.Changed("tab-size") {
		opts = append(opts, config.WithOverride(config.KeyTabSize, c.tabSize))
	}
	if flags.Changed("timeout") {
		opts = append(opts, config.WithOverride(config.KeyTimeout, c.timeout))
	}
	if flags.Changed("log-level") {
		opts = append(opts, config.WithOverride(config.KeyLogLevel, c.logLevel))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Logging.Level),
		Output: c.stderr,
	})
	logger.Debug("configuration loaded", configFields(cfg)...)

	return app.New(cfg,
		app.WithLogger(logger),
		app.WithScriptOutput(c.stderr)), nil
}

func configFields(cfg *config.Config) []zap.Field {
	return []zap.Field{
		zap.Int("tabSize", cfg.Editor.TabSize),
		zap.Duration("timeout", cfg.Align.Timeout),
		zap.Int("maxIterations", cfg.Align.MaxIterations),
		zap.Any("sources", cfg.Sources()),
	}
}

func (c *cli) openDocument(a *app.App, path string) (*app.Document, error) {
	if path != stdinPath {
		return a.Open(path)
	}
	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return nil, app.NewOperationError("read", "<stdin>", err)
	}
	return app.NewDocument("", data, a.Config().Editor.TabSize), nil
}

func (c *cli) writeDocument(doc *app.Document, write bool) error {
	if !write {
		_, err := io.WriteString(c.stdout, doc.Content())
		return err
	}
	if doc.Path == "" {
		return fmt.Errorf("%w: --write needs a file, not standard input", errUsage)
	}
	return doc.Save()
}

// status writes a non-empty status message to stderr.
func (c *cli) status(msg string) {
	if msg != "" {
		fmt.Fprintln(c.stderr, msg)
	}
}

// report writes msg and marks err as reported. Without a message err is
// left for run to print.
func (c *cli) report(msg string, err error) error {
	if msg == "" {
		return err
	}
	c.status(msg)
	return &reportedError{err: err}
}

// placeCursors adds a cursor for each --at position, or a selection from
// the single --at position to --to.
func placeCursors(doc *app.Document, at []string, to string) error {
	if to != "" && len(at) != 1 {
		return fmt.Errorf("%w: --to needs exactly one --at", errUsage)
	}

	positions := make([]app.Position, len(at))
	for i, s := range at {
		pos, err := app.ParsePosition(s)
		if err != nil {
			return err
		}
		positions[i] = pos
	}

	if to != "" {
		end, err := app.ParsePosition(to)
		if err != nil {
			return err
		}
		return doc.Select(positions[0], end)
	}
	for _, pos := range positions {
		if err := doc.AddCursor(pos); err != nil {
			return err
		}
	}
	return nil
}
