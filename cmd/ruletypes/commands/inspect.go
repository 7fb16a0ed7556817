package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bfv/ruletypes/internal/config"
	"github.com/bfv/ruletypes/internal/generate"
	"github.com/bfv/ruletypes/internal/ruleset"
)

// NewInspectCmd builds and returns the 'inspect' cobra command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <rules-file>",
		Short: "Dump the merged schema tree of a rule set as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runInspect(cfg, args[0])
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	return cmd
}

// runInspect is the entry point for the inspect command.
func runInspect(cfg *config.Config, rulesPath string) error {
	log.Debug().Str("rules", rulesPath).Str("output", cfg.Output).Msg("inspect started")

	doc, err := ruleset.Load(rulesPath)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	g, err := generate.New(cfg)
	if err != nil {
		return err
	}
	tree, err := g.Tree(doc)
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.Output, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree.View()); err != nil {
			return fmt.Errorf("marshalling yaml: %w", err)
		}
		return enc.Close()
	}); err != nil {
		return err
	}

	log.Debug().Int("roots", len(tree.Roots)).Msg("inspect complete")
	return nil
}
