package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bfv/ruletypes/internal/config"
	"github.com/bfv/ruletypes/internal/typescript"
)

// loadConfig resolves configuration for cmd, binding its output and format
// flags into viper so they can be read uniformly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var file string
	if f := cmd.Flag("config"); f != nil {
		file = f.Value.String()
	}
	v := config.New(file)
	for _, name := range []string{"output", "format"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return nil, err
			}
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug().Str("path", used).Msg("config loaded")
	}
	return cfg, nil
}

// addOutputFlags registers the flags shared by commands that emit
// declarations.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	cmd.Flags().String("format", "", "Output format: ts or json (default ts)")
}

// writeOutput resolves the output writer and hands it to write.
func writeOutput(outputPath string, write func(io.Writer) error) error {
	if outputPath == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", outputPath, err)
	}
	defer f.Close()
	log.Debug().Str("path", outputPath).Msg("writing to file")

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return w.Flush()
}

// writeDefinitions writes defs to outputPath in the configured format.
func writeDefinitions(outputPath, format string, defs []typescript.Definition) error {
	return writeOutput(outputPath, func(w io.Writer) error {
		if format == config.FormatJSON {
			return typescript.RenderJSON(w, defs)
		}
		return typescript.Render(w, defs)
	})
}
