package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bfv/ruletypes/internal/generate"
)

// ManifestFile is the top-level structure of the generate manifest YAML.
type ManifestFile struct {
	RuleTypes Manifest `yaml:"ruletypes"`
}

// Manifest lists the inputs of one generated declaration file.
type Manifest struct {
	Output   string   `yaml:"output"`
	Requests []string `yaml:"requests"`
	Models   []string `yaml:"models"`
}

// loadManifest reads and unmarshals the YAML manifest file.
func loadManifest(path string) (*ManifestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m ManifestFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// jobs expands the manifest globs relative to dir. Models come after
// requests; each glob's matches are sorted.
func (m *Manifest) jobs(dir string) ([]generate.Job, error) {
	var jobs []generate.Job
	add := func(kind string, patterns []string) error {
		for _, p := range patterns {
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			matches, err := filepath.Glob(p)
			if err != nil {
				return fmt.Errorf("pattern %q: %w", p, err)
			}
			if len(matches) == 0 {
				return fmt.Errorf("pattern %q matches no files", p)
			}
			slices.Sort(matches)
			for _, path := range matches {
				jobs = append(jobs, generate.Job{Kind: kind, Path: path})
			}
		}
		return nil
	}
	if err := add(generate.KindRequest, m.Requests); err != nil {
		return nil, err
	}
	if err := add(generate.KindModel, m.Models); err != nil {
		return nil, err
	}
	return jobs, nil
}
