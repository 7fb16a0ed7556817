// Package config loads ruletypes settings through viper.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/bfv/ruletypes/internal/rules"
)

// Output formats.
const (
	FormatTS   = "ts"
	FormatJSON = "json"
)

// Config is the resolved configuration.
type Config struct {
	CustomRules    []rules.CustomRule
	Catalog        string
	TablePrefix    string
	Namespace      string
	ModelNamespace string
	Output         string
	Format         string
	Concurrency    int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("namespace", "App.Http.Requests")
	v.SetDefault("modelNamespace", "App.Models")
	v.SetDefault("format", FormatTS)
	v.SetDefault("concurrency", 4)
}

// New returns a viper instance reading ruletypes.yaml from the working
// directory, or file when given, plus RULETYPES_* environment variables.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("ruletypes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("RULETYPES")
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and decodes v. A missing default
// config file is not an error; a missing explicit one is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	custom, err := customRules(v.Get("customRules"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CustomRules:    custom,
		Catalog:        v.GetString("catalog"),
		TablePrefix:    v.GetString("tablePrefix"),
		Namespace:      v.GetString("namespace"),
		ModelNamespace: v.GetString("modelNamespace"),
		Output:         v.GetString("output"),
		Format:         v.GetString("format"),
		Concurrency:    v.GetInt("concurrency"),
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if c.Format != FormatTS && c.Format != FormatJSON {
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// customRules decodes a list of {rule, types} maps. types may be a single
// string or a list.
func customRules(raw any) ([]rules.CustomRule, error) {
	if raw == nil {
		return nil, nil
	}
	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("customRules: %w", err)
	}

	out := make([]rules.CustomRule, 0, len(items))
	for i, item := range items {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, fmt.Errorf("customRules[%d]: %w", i, err)
		}
		name := cast.ToString(m["rule"])
		if name == "" {
			return nil, fmt.Errorf("customRules[%d]: missing rule", i)
		}
		var types []string
		switch t := m["types"].(type) {
		case nil:
		case string:
			types = []string{t}
		default:
			if types, err = cast.ToStringSliceE(t); err != nil {
				return nil, fmt.Errorf("customRules[%d]: %w", i, err)
			}
		}
		out = append(out, rules.CustomRule{Rule: name, Types: types})
	}
	return out, nil
}
