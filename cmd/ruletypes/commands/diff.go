package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bfv/ruletypes/internal/config"
	"github.com/bfv/ruletypes/internal/generate"
	"github.com/bfv/ruletypes/internal/ruleset"
	"github.com/bfv/ruletypes/internal/schema"
	"github.com/bfv/ruletypes/internal/typescript"
)

// NewDiffCmd builds and returns the 'diff' cobra command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old-rules> <new-rules>",
		Short: "Show property type differences between two rule sets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runDiff(cfg, args[0], args[1])
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	return cmd
}

// runDiff is the entry point for the diff command.
func runDiff(cfg *config.Config, oldPath, newPath string) error {
	log.Debug().Str("old", oldPath).Str("new", newPath).Str("output", cfg.Output).Msg("diff started")

	g, err := generate.New(cfg)
	if err != nil {
		return err
	}
	oldProps, err := compileFile(g, oldPath)
	if err != nil {
		return err
	}
	newProps, err := compileFile(g, newPath)
	if err != nil {
		return err
	}

	rows := diffProperties(oldProps, newProps)
	log.Debug().Int("oldProperties", len(oldProps)).Int("newProperties", len(newProps)).Int("differences", len(rows)).Msg("diff complete")

	return writeOutput(cfg.Output, func(w io.Writer) error {
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, "No type differences found.")
			return err
		}
		printDiffTable(w, rows)
		return nil
	})
}

func compileFile(g *generate.Generator, path string) ([]schema.Property, error) {
	doc, err := ruleset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	def, err := g.Request(doc)
	if err != nil {
		return nil, err
	}
	return def.Properties, nil
}

// diffRow holds one line of diff output.
type diffRow struct {
	property string
	oldDecl  string
	newDecl  string
}

// diffProperties compares by property name, preserving old order, then
// appending properties only present in the new set.
func diffProperties(oldProps, newProps []schema.Property) []diffRow {
	const missing = "(not present)"

	newMap := make(map[string]schema.Property, len(newProps))
	for _, p := range newProps {
		newMap[p.Name] = p
	}

	var rows []diffRow
	seen := map[string]bool{}
	for _, p := range oldProps {
		seen[p.Name] = true
		n, ok := newMap[p.Name]
		if !ok {
			rows = append(rows, diffRow{p.Name, declaration(p), missing})
			continue
		}
		if o, nd := declaration(p), declaration(n); o != nd {
			rows = append(rows, diffRow{p.Name, o, nd})
		}
	}
	for _, p := range newProps {
		if !seen[p.Name] {
			rows = append(rows, diffRow{p.Name, missing, declaration(p)})
		}
	}
	return rows
}

// declaration renders a property on one line without the terminator.
func declaration(p schema.Property) string {
	line := typescript.Formatter{}.FormatProperty(p)
	return strings.TrimSuffix(strings.Join(strings.Fields(line), " "), ";")
}

// printDiffTable renders the diff as a fixed-column table.
func printDiffTable(w io.Writer, rows []diffRow) {
	const (
		hProperty = "PROPERTY"
		hOld      = "OLD"
		hNew      = "NEW"
	)

	wProperty := len(hProperty)
	wOld := len(hOld)
	for _, r := range rows {
		wProperty = max(wProperty, len(r.property))
		wOld = max(wOld, len(r.oldDecl))
	}

	// Add padding between columns.
	wProperty += 2
	wOld += 2

	fmtRow := func(p, o, n string) {
		fmt.Fprintf(w, "%-*s%-*s%s\n", wProperty, p, wOld, o, n)
	}

	fmtRow(hProperty, hOld, hNew)
	fmtRow(strings.Repeat("-", wProperty-2), strings.Repeat("-", wOld-2), strings.Repeat("-", len(hNew)))
	for _, r := range rows {
		fmtRow(r.property, r.oldDecl, r.newDecl)
	}
}
