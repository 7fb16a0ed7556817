// Package ruleset loads rule-set documents while keeping declaration order.
//
// A document names the declaration and maps property paths to rules:
//
//	name: StoreOrderRequest
//	namespace: App.Http.Requests
//	rules:
//	  email: required|email
//	  items: [required, array]
//	  items.*.sku: [required, {rule: App\Rules\Sku}]
//
// A rule is a pipe-delimited string, a list, or null for "no rules". List
// entries are rule strings or objects with a "rule" class and an optional
// "string" form.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bfv/ruletypes/internal/rules"
)

// Document is a named rule set.
type Document struct {
	Name      string
	Namespace string
	Rules     rules.Set
}

// Load reads a document from path. Files ending in .json are decoded as
// JSON, everything else as YAML. A missing name defaults to the file name.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc *Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err = ParseJSON(data)
	} else {
		doc, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if doc.Name == "" {
		base := filepath.Base(path)
		doc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return doc, nil
}

// objectRule builds an object rule from its decoded keys.
func objectRule(fields map[string]string) (rules.ObjectRule, error) {
	r := rules.ObjectRule{Class: fields["rule"], Text: fields["string"]}
	if r.Class == "" && r.Text == "" {
		return r, fmt.Errorf("rule object needs a %q or %q key", "rule", "string")
	}
	return r, nil
}
