package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/document"
)

func (a *app) inspectCmd() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show how a document is parsed",
		Long: `Print the structure of a document as the renderer sees it:
every key with its content kind. --dump prints the raw parsed tree.

Examples:
  htoml inspect index.toml
  htoml inspect index.toml --dump`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.CodeNoFileGiven)
			}
			doc, err := document.Load(args[0])
			if err != nil {
				return err
			}

			if dump {
				cfg := spew.ConfigState{
					Indent:                  "  ",
					SortKeys:                true,
					DisablePointerAddresses: true,
					DisableCapacities:       true,
				}
				cfg.Fdump(a.stdout, doc.Map())
				return nil
			}

			outline(a.stdout, doc.Root(), 0)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the raw parsed tree")

	return cmd
}

// outline writes one line per key of t, descending into tables and arrays.
func outline(w io.Writer, t document.Table, depth int) {
	for _, key := range t.Keys() {
		v, _ := t.Get(key)
		outlineValue(w, key, v, depth)
	}
}

func outlineValue(w io.Writer, label string, v any, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s: %s\n", indent, label, describe(v))

	switch v := v.(type) {
	case document.Table:
		outline(w, v, depth+1)
	case []any:
		for i, item := range v {
			outlineValue(w, "["+strconv.Itoa(i)+"]", item, depth+1)
		}
	}
}

// describe summarizes a value by its content kind.
func describe(v any) string {
	switch document.KindOf(v) {
	case document.KindText:
		return "text " + strconv.Quote(v.(string))
	case document.KindElement:
		if tag, ok, _ := v.(document.Table).String("type"); ok {
			return "element <" + tag + ">"
		}
		return "table"
	case document.KindSequence:
		return fmt.Sprintf("sequence of %d", len(v.([]any)))
	default:
		return document.TypeName(v)
	}
}
