// Command aoc builds and runs Advent of Code solutions. The working directory
// selects the puzzle: <repo>/<year>/d<day>/<language>.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aocrun/internal/config"
	"aocrun/internal/errors"
	"aocrun/internal/harness"
	"aocrun/internal/location"
	"aocrun/internal/logging"
	"aocrun/internal/tactile"
	"aocrun/internal/workspace"
)

// operations is the allow-list of verbs, in help order.
var operations = []string{"init", "build", "run"}

var (
	// Global flags
	verbose      bool
	rootOverride string
	startDir     string

	// Logger
	logger = zap.NewNop()

	// newExecutor builds the child-process executor; tests swap in a recorder.
	newExecutor = func(cfg tactile.ExecutorConfig) tactile.Executor {
		return tactile.NewDirectExecutorWithConfig(cfg)
	}
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit status.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(stdin, stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(stderr, err)
	}
	_ = logger.Sync()
	return errors.ExitStatus(err)
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	verbose, rootOverride, startDir = false, "", ""

	rootCmd := &cobra.Command{
		Use:   "aoc <operation> [args...]",
		Short: "Build and run Advent of Code solutions",
		Long: `aoc scaffolds, builds and runs the solution in the current directory.

The directory layout selects the puzzle and language:
  <repo>/<year>/d<day>/<language>

Operations:
  init [language]                      scaffold a solution from templates/<language>
  build                                compile the solution and its lib/ dependencies
  run [input-file] [program-args...]   build, then run (input defaults to ../input)`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(stderr, verbose)
			// cobra injects __complete on demand; only the allow-list may run.
			if cmd.HasParent() && !isOperation(cmd.Name()) {
				return unrecognized(cmd.Name())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.Newf(errors.UnrecognizedOperation,
					"no operation given (expected one of %s)", strings.Join(operations, ", "))
			}
			return unrecognized(args[0])
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return unrecognized("help")
		},
	})
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&rootOverride, "root", "", "Repository root (default: $AOC_ROOT or the git top-level)")
	rootCmd.PersistentFlags().StringVarP(&startDir, "dir", "C", "", "Run as if started in this directory")

	initCmd := &cobra.Command{
		Use:   "init [language]",
		Short: "Scaffold a solution from templates/<language>",
		Long: `Copies templates/<language> into the solution directory.

From a day directory the language argument is required and names the
directory to create. Refuses to overwrite an existing entry point.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			warnExtraArgs("init", args, 1)
			a, err := setup(cmd.Context(), stdin, stdout, stderr)
			if err != nil {
				return err
			}
			defer a.close()

			language := ""
			if len(args) > 0 {
				language = args[0]
			}
			return a.harness.Init(cmd.Context(), a.location, language)
		},
	}

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the solution and its dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			warnExtraArgs("build", args, 0)
			a, err := setup(cmd.Context(), stdin, stdout, stderr)
			if err != nil {
				return err
			}
			defer a.close()

			_, err = a.harness.Build(cmd.Context(), a.location)
			return err
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [input-file] [program-args...]",
		Short: "Build, then run the solution",
		Long: `Builds the solution and, only if the build succeeds, runs it with the given
arguments. Without arguments the program receives ../input. The exit status
is the program's own.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), stdin, stdout, stderr)
			if err != nil {
				return err
			}
			defer a.close()

			return a.harness.Run(cmd.Context(), a.location, args)
		},
	}
	// Everything after the first positional belongs to the program.
	runCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(initCmd, buildCmd, runCmd)
	return rootCmd
}

func isOperation(name string) bool {
	for _, op := range operations {
		if op == name {
			return true
		}
	}
	return false
}

func unrecognized(verb string) error {
	return errors.Newf(errors.UnrecognizedOperation,
		"unrecognized operation %q (expected one of %s)", verb, strings.Join(operations, ", "))
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func warnExtraArgs(op string, args []string, arity int) {
	if len(args) > arity {
		logger.Warn("Ignoring extra arguments",
			zap.String("operation", op),
			zap.Strings("ignored", args[arity:]))
	}
}

// app is everything an operation needs, built once per invocation.
type app struct {
	harness  *harness.Harness
	location location.Location
	audit    *tactile.AuditLogger
}

func (a *app) close() {
	snap := a.audit.GetMetrics()
	logger.Debug("Child processes",
		zap.Int64("total", snap.TotalExecutions),
		zap.Int64("failed", snap.FailedExecutions),
		zap.Int64("duration_ms", snap.TotalDurationMs))
	_ = a.audit.Close()
	logging.CloseAll()
}

// setup resolves the repository root and Location from the starting
// directory, loads config and wires the executor.
func setup(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	cwd := startDir
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			return nil, errors.Wrap(err, errors.InvalidLocation, "cannot determine working directory")
		}
	}
	cwd = canonical(cwd)

	discovery := newExecutor(tactile.DefaultExecutorConfig())
	root, err := workspace.ResolveRoot(ctx, discovery, rootOverride, cwd)
	if err != nil {
		return nil, err
	}
	layout := workspace.New(canonical(root))
	logger.Debug("Repository root", zap.String("root", layout.Root))

	cfg, err := config.Load(layout.ConfigPath())
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.DebugMode = true
	}
	if err := logging.Initialize(layout.LogsDir(), logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		logger.Warn("File logging disabled", zap.Error(err))
	}

	loc, err := location.Resolve(cwd, layout.Root)
	if err != nil {
		return nil, err
	}
	logging.LocationDebug("%s -> %s", cwd, loc)
	logger.Debug("Location", zap.Int("year", loc.Year), zap.Int("day", loc.Day), zap.String("language", loc.Language))

	execCfg := tactile.DefaultExecutorConfig()
	execCfg.DefaultWorkingDir = loc.Dir()
	execCfg.InheritEnvironment = cfg.Execution.InheritEnvironment
	execCfg.AllowedEnvironment = cfg.Execution.AllowedEnvVars

	audit := tactile.NewAuditLogger()
	audit.AddCallback(func(e tactile.AuditEvent) {
		fields := []zap.Field{zap.String("event", string(e.Type)), zap.String("command", e.Command.CommandString())}
		if e.Result != nil {
			fields = append(fields, zap.Int("exit", e.Result.ExitCode), zap.Duration("duration", e.Result.Duration))
		}
		logger.Debug("exec", fields...)
	})
	if cfg.Logging.DebugMode {
		if err := audit.EnableFileLogging(layout.JournalPath()); err != nil {
			logger.Warn("Execution journal disabled", zap.Error(err))
		}
	}
	executor := tactile.NewAuditedExecutor(newExecutor(execCfg), audit)

	return &app{
		harness: harness.New(harness.Options{
			Layout:   layout,
			Executor: executor,
			Config:   cfg,
			Stdin:    stdin,
			Stdout:   stdout,
			Stderr:   stderr,
		}),
		location: loc,
		audit:    audit,
	}, nil
}

// canonical makes path absolute with symlinks resolved, so the Location
// prefix check compares like with like.
func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return path
}

// buildPhase reports whether err came from compiling the solution.
func buildPhase(err error) bool {
	return errors.Is(err, errors.BuildFailed) ||
		errors.Is(err, errors.DependencyBuildFailed) ||
		errors.Is(err, errors.DependencyNotFound)
}

func reportError(w io.Writer, err error) {
	styles := newStyles(w)
	if buildPhase(err) {
		fmt.Fprintln(w, styles.headline.Render("build failed"))
	}
	fmt.Fprintf(w, "%s %s\n", styles.label.Render("error:"), styles.detail.Render(err.Error()))
}
