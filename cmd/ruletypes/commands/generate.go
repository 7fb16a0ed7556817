package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bfv/ruletypes/internal/config"
	"github.com/bfv/ruletypes/internal/generate"
)

// NewGenerateCmd builds and returns the 'generate' cobra command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <manifest.yaml>",
		Short: "Generate one declaration file from every rule set and model in a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), cfg, args[0])
		},
	}
	addOutputFlags(cmd)
	return cmd
}

// runGenerate is the entry point for the generate command. The --output
// flag or config value overrides the manifest output.
func runGenerate(ctx context.Context, cfg *config.Config, manifestPath string) error {
	log.Debug().Str("manifest", manifestPath).Msg("generate started")

	m, err := loadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	dir := filepath.Dir(manifestPath)

	jobs, err := m.RuleTypes.jobs(dir)
	if err != nil {
		return fmt.Errorf("expanding manifest: %w", err)
	}
	log.Debug().Int("jobs", len(jobs)).Int("concurrency", cfg.Concurrency).Msg("manifest expanded")

	g, err := generate.New(cfg)
	if err != nil {
		return err
	}
	defs, err := g.Run(ctx, jobs)
	if err != nil {
		return err
	}

	output := cfg.Output
	if output == "" && m.RuleTypes.Output != "" {
		output = m.RuleTypes.Output
		if !filepath.IsAbs(output) {
			output = filepath.Join(dir, output)
		}
	}
	if err := writeDefinitions(output, cfg.Format, defs); err != nil {
		return err
	}

	log.Info().Int("definitions", len(defs)).Str("output", output).Msg("generate complete")
	return nil
}
