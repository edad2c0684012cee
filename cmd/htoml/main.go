package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/htoml-dev/htoml/internal/config"
	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/publish"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬ ┬┌┬┐┌─┐┌┬┐┬
  ├─┤ │ │ ││││
  ┴ ┴ ┴ └─┘┴ ┴┴─┘
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	root := app.rootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		errors.FprintError(stderr, err)
		return 1
	}
	return 0
}

// app carries the state shared by all commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	verbose bool
	noColor bool

	level  *slog.LevelVar
	logger *slog.Logger

	// newObjectAPI builds the publish client; replaced in tests.
	newObjectAPI func(config.PublishConfig) (publish.ObjectAPI, error)
}

func newApp(stdout, stderr io.Writer) *app {
	level := new(slog.LevelVar)
	return &app{
		stdout: stdout,
		stderr: stderr,
		level:  level,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		newObjectAPI: func(cfg config.PublishConfig) (publish.ObjectAPI, error) {
			return publish.NewS3Client(cfg)
		},
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "htoml",
		Short: "Compile TOML documents to HTML",
		Long: `htoml compiles HTML pages described in TOML.

A document names its doctype, an optional head and a body made of
text, elements and sequences of both:

  html = "5"
  lang = "en"
  body = [{ type = "p", cont = "Hello" }]

  [head]
  title = "Home"`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.noColor {
				errors.DisableColors()
			}
			if a.verbose {
				a.level.Set(slog.LevelDebug)
			}
			slog.SetDefault(a.logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.CodeNoCommand)
			}
			return errors.New(errors.CodeUnknownCommand).WithSubject(args[0])
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		a.initCmd(),
		a.compileCmd(),
		a.serveCmd(),
		a.publishCmd(),
		a.inspectCmd(),
		a.versionCmd(),
	)
	root.SetHelpCommand(a.helpCmd(root))

	return root
}

func (a *app) helpCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:     "help [command]",
		Aliases: []string{"h"},
		Short:   "Help about any command",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, rest, err := root.Find(args)
			if err != nil || len(rest) > 0 {
				return errors.New(errors.CodeUnknownCommand).WithSubject(strings.Join(args, " "))
			}
			target.InitDefaultHelpFlag()
			return target.Help()
		},
	}
}

// loadConfig loads htoml.json from the working directory or a parent and
// applies its log level unless --verbose is set.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return nil, err
	}
	if !a.verbose {
		a.level.Set(cfg.Level())
	}
	if p := cfg.Path(); p != "" {
		a.logger.Debug("loaded config", "path", p)
	}
	return cfg, nil
}

// printBanner prints the ASCII art banner.
func (a *app) printBanner() {
	fmt.Fprint(a.stdout, banner)
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.stdout, "%s %s\n", a.paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.stdout, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (a *app) warn(format string, args ...any) {
	fmt.Fprintf(a.stdout, "%s %s\n", a.paint("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}

func (a *app) paint(code, s string) string {
	if a.noColor {
		return s
	}
	return code + s + "\033[0m"
}
