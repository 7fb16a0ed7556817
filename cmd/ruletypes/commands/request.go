package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bfv/ruletypes/internal/config"
	"github.com/bfv/ruletypes/internal/generate"
)

// NewRequestCmd builds and returns the 'request' cobra command.
func NewRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request <rules-file>...",
		Short: "Compile validation rule sets into TypeScript interfaces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runFiles(cmd.Context(), cfg, generate.KindRequest, args)
		},
	}
	addOutputFlags(cmd)
	return cmd
}

// NewModelCmd builds and returns the 'model' cobra command.
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model <model-file>...",
		Short: "Render model column and relation metadata into TypeScript interfaces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runFiles(cmd.Context(), cfg, generate.KindModel, args)
		},
	}
	addOutputFlags(cmd)
	return cmd
}

// runFiles is the entry point for the request and model commands.
func runFiles(ctx context.Context, cfg *config.Config, kind string, paths []string) error {
	log.Debug().Str("kind", kind).Strs("files", paths).Str("output", cfg.Output).Msg("generation started")

	g, err := generate.New(cfg)
	if err != nil {
		return err
	}

	jobs := make([]generate.Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, generate.Job{Kind: kind, Path: p})
	}

	defs, err := g.Run(ctx, jobs)
	if err != nil {
		return err
	}
	if err := writeDefinitions(cfg.Output, cfg.Format, defs); err != nil {
		return err
	}

	log.Debug().Int("definitions", len(defs)).Msg("generation complete")
	return nil
}
