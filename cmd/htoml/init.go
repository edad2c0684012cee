package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/htoml-dev/htoml/internal/templates"
)

func (a *app) initCmd() *cobra.Command {
	var (
		starter string
		cfg     templates.Config
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new htoml project",
		Long: `Create htoml.json and starter documents in dir, or in the
current directory when dir is omitted. Existing files are never
overwritten.

Examples:
  htoml init
  htoml init notes --starter=site --title="Field notes"
  htoml init --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range templates.List() {
					tmpl, _ := templates.Get(name)
					fmt.Fprintf(a.stdout, "  %-10s %s\n", name, tmpl.Description)
				}
				return nil
			}

			tmpl, err := templates.Get(starter)
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			created, err := tmpl.Create(dir, cfg)
			if err != nil {
				return err
			}
			a.success("Created %s project in %s", tmpl.Name, dir)
			for _, rel := range created {
				a.info("%s", filepath.Join(dir, rel))
			}
			fmt.Fprintln(a.stdout)
			a.info("Run htoml serve to preview")
			return nil
		},
	}

	cmd.Flags().StringVarP(&starter, "starter", "s", "minimal", "Starter to use")
	cmd.Flags().BoolVar(&list, "list", false, "List available starters")
	cmd.Flags().StringVar(&cfg.Title, "title", "", "Page title")
	cmd.Flags().StringVar(&cfg.Lang, "lang", "", "Document language")
	cmd.Flags().StringVar(&cfg.Bucket, "bucket", "", "S3 bucket for htoml publish")
	cmd.Flags().IntVar(&cfg.Port, "port", 0, "Dev server port")

	return cmd
}
