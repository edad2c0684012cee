package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/htoml-dev/htoml/internal/config"
	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/compiler"
	"github.com/htoml-dev/htoml/pkg/middleware"
	"github.com/htoml-dev/htoml/pkg/render"
)

func (a *app) compileCmd() *cobra.Command {
	var (
		outDir   string
		toStdout bool
		escape   bool
	)

	cmd := &cobra.Command{
		Use:     "compile <file>...",
		Aliases: []string{"cp", "c"},
		Short:   "Compile documents to HTML",
		Long: `Compile each TOML document to an HTML page.

The page is written next to its source with the extension replaced
by .html, or into --out-dir. Writes are atomic: a failed compile
leaves any existing page untouched.

Examples:
  htoml compile index.toml
  htoml c docs/*.toml --out-dir=public
  htoml cp index.toml --stdout`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.CodeNoFileGiven)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.OutputDir()
			}

			c := a.newCompiler(cfg, escape)
			for _, path := range args {
				if toStdout {
					res, err := c.CompileFileContent(cmd.Context(), path)
					if err != nil {
						return err
					}
					fmt.Fprintln(a.stdout, res.HTML)
					continue
				}

				res, out, err := c.CompileFile(cmd.Context(), path, outDir)
				if err != nil {
					return err
				}
				a.success("%s → %s (%s)", path, out, res.Duration.Round(time.Microsecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Output directory (default: next to each source)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print HTML instead of writing files")
	cmd.Flags().BoolVar(&escape, "escape", false, "HTML-escape text and attribute values")

	return cmd
}

// newCompiler builds the compiler shared by compile and publish.
func (a *app) newCompiler(cfg *config.Config, escape bool) *compiler.Compiler {
	return compiler.New(compiler.Config{
		Render: render.RendererConfig{Escape: escape || cfg.Escape},
		Logger: a.logger,
		Middleware: []compiler.Middleware{
			middleware.OpenTelemetry(),
		},
	})
}
