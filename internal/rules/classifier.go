package rules

import "strings"

// Classifier resolves object rules that have no string form. A nil or empty
// result means the rule contributes nothing.
type Classifier interface {
	Classify(rule ObjectRule) []Token
}

// ColumnCatalog resolves the scalar tags of a database column. It is
// consulted for exists and unique rules and must be safe for concurrent reads.
type ColumnCatalog interface {
	ColumnTypes(table, column string) ([]string, bool)
}

// CustomRule maps a rule class to the tags it implies.
type CustomRule struct {
	Rule  string   `mapstructure:"rule" yaml:"rule"`
	Types []string `mapstructure:"types" yaml:"types"`
}

// ConfigClassifier knows the password and closure rule classes plus any
// configured custom rules.
type ConfigClassifier struct {
	custom map[string][]string
}

// NewConfigClassifier builds a classifier from a custom rule table. Later
// entries for the same class replace earlier ones.
func NewConfigClassifier(custom []CustomRule) *ConfigClassifier {
	c := &ConfigClassifier{custom: make(map[string][]string, len(custom))}
	for _, r := range custom {
		c.custom[r.Rule] = r.Types
	}
	return c
}

// Classify implements Classifier.
func (c *ConfigClassifier) Classify(rule ObjectRule) []Token {
	switch {
	case isPasswordClass(rule.Class):
		return []Token{{Name: TagString}}
	case rule.Class == "Closure" || strings.HasSuffix(rule.Class, `\ClosureValidationRule`):
		return []Token{{Name: TagAny}}
	}
	tags, ok := c.custom[rule.Class]
	if !ok {
		return nil
	}
	out := make([]Token, 0, len(tags))
	for _, t := range tags {
		out = append(out, Token{Name: t})
	}
	return out
}

func isPasswordClass(class string) bool {
	return class == "Password" || strings.HasSuffix(class, `\Password`)
}
