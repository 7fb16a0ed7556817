package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfv/ruletypes/internal/rules"
)

var wantRules = rules.Set{
	{Path: "zeta", Spec: rules.Spec{rules.StringRule("required"), rules.StringRule("string")}},
	{Path: "alpha", Spec: rules.Spec{rules.StringRule("integer")}},
	{Path: "password", Spec: rules.Spec{
		rules.StringRule("required"),
		rules.ObjectRule{Class: `Illuminate\Validation\Rules\Password`},
		rules.ObjectRule{Class: `Illuminate\Validation\Rules\In`, Text: "in:a,b"},
	}},
	{Path: "items.*.name", Spec: rules.Spec{}},
}

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(`name: StoreRequest
namespace: App.Http.Requests
rules:
  zeta: required|string
  alpha: [integer]
  password:
    - required
    - rule: Illuminate\Validation\Rules\Password
    - {rule: Illuminate\Validation\Rules\In, string: "in:a,b"}
  items.*.name:
`))
	require.NoError(t, err)

	assert.Equal(t, "StoreRequest", doc.Name)
	assert.Equal(t, "App.Http.Requests", doc.Namespace)
	if diff := cmp.Diff(wantRules, doc.Rules); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
  "name": "StoreRequest",
  "extra": {"ignored": [1, 2, {"x": null}]},
  "rules": {
    "zeta": "required|string",
    "alpha": ["integer"],
    "password": [
      "required",
      {"rule": "Illuminate\\Validation\\Rules\\Password"},
      {"rule": "Illuminate\\Validation\\Rules\\In", "string": "in:a,b"}
    ],
    "items.*.name": null
  }
}`))
	require.NoError(t, err)

	assert.Equal(t, "StoreRequest", doc.Name)
	assert.Empty(t, doc.Namespace)
	if diff := cmp.Diff(wantRules, doc.Rules); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := ParseYAML([]byte("- a\n- b\n"))
	assert.ErrorContains(t, err, "document must be a mapping")

	_, err = ParseYAML([]byte("rules:\n  a: {x: y}\n"))
	assert.ErrorContains(t, err, `rules for "a"`)

	_, err = ParseYAML([]byte("rules:\n  a:\n    - {other: y}\n"))
	assert.ErrorContains(t, err, "rule object needs")

	_, err = ParseJSON([]byte(`{"rules": {"a": 5}}`))
	assert.ErrorContains(t, err, `rules for "a"`)

	_, err = ParseJSON([]byte(`[]`))
	assert.Error(t, err)
}

func TestLoad_DefaultsName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "UpdateProfileRequest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rules": {"bio": "nullable|string"}}`), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "UpdateProfileRequest", doc.Name)
	require.Len(t, doc.Rules, 1)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
