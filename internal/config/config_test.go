package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfv/ruletypes/internal/rules"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ruletypes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `catalog: db/catalog.yaml
tablePrefix: app_
format: json
customRules:
  - rule: App\Rules\Money
    types: [number, string]
  - rule: App\Rules\Upload
    types: Blob | File
`)

	cfg, err := Load(New(path))
	require.NoError(t, err)

	assert.Equal(t, "db/catalog.yaml", cfg.Catalog)
	assert.Equal(t, "app_", cfg.TablePrefix)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "App.Http.Requests", cfg.Namespace)
	assert.Equal(t, "App.Models", cfg.ModelNamespace)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, []rules.CustomRule{
		{Rule: `App\Rules\Money`, Types: []string{"number", "string"}},
		{Rule: `App\Rules\Upload`, Types: []string{"Blob | File"}},
	}, cfg.CustomRules)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("RULETYPES_NAMESPACE", "Api.Requests")
	path := writeConfig(t, "format: ts\n")

	cfg, err := Load(New(path))
	require.NoError(t, err)
	assert.Equal(t, "Api.Requests", cfg.Namespace)
	assert.Empty(t, cfg.CustomRules)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(New(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorContains(t, err, "reading config")

	_, err = Load(New(writeConfig(t, "format: xml\n")))
	assert.ErrorContains(t, err, `unsupported format "xml"`)

	_, err = Load(New(writeConfig(t, "concurrency: 0\n")))
	assert.ErrorContains(t, err, "concurrency")

	_, err = Load(New(writeConfig(t, "customRules:\n  - types: string\n")))
	assert.ErrorContains(t, err, "missing rule")
}
