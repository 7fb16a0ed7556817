// Package rules turns per-field validation rule specifications into flat
// property descriptors.
package rules

import "strings"

// Rule is one entry of a rule specification. It is either a StringRule or an
// ObjectRule.
type Rule interface {
	rule()
}

// StringRule is a rule written as "name" or "name:argument".
type StringRule string

func (StringRule) rule() {}

// ObjectRule is an opaque rule object. Class identifies the implementation;
// Text is its string form when the object has one.
type ObjectRule struct {
	Class string
	Text  string
}

func (ObjectRule) rule() {}

// Spec is the ordered list of rules declared for one path.
type Spec []Rule

// SplitSpec splits a pipe-delimited rule string into a Spec.
func SplitSpec(s string) Spec {
	parts := strings.Split(s, "|")
	spec := make(Spec, 0, len(parts))
	for _, p := range parts {
		spec = append(spec, StringRule(p))
	}
	return spec
}

// Field pairs a dotted property path with its rule specification.
type Field struct {
	Path string
	Spec Spec
}

// Set is a rule set in declaration order.
type Set []Field

// Token is a resolved rule name with its raw argument.
type Token struct {
	Name string
	Arg  string
}

// tokenSet keeps tokens keyed by name. A repeated name keeps the position
// of its first occurrence and the argument of its last.
type tokenSet struct {
	names []string
	args  map[string]string
}

func newTokenSet() *tokenSet {
	return &tokenSet{args: map[string]string{}}
}

func (s *tokenSet) add(t Token) {
	if t.Name == "" {
		return
	}
	if _, ok := s.args[t.Name]; !ok {
		s.names = append(s.names, t.Name)
	}
	s.args[t.Name] = t.Arg
}

func (s *tokenSet) has(name string) bool {
	_, ok := s.args[name]
	return ok
}

func (s *tokenSet) arg(name string) (string, bool) {
	a, ok := s.args[name]
	return a, ok
}

func (s *tokenSet) empty() bool {
	return len(s.names) == 0
}

// types returns the token names that are not control flags.
func (s *tokenSet) types() []string {
	var out []string
	for _, n := range s.names {
		if !IsControl(n) {
			out = append(out, n)
		}
	}
	return out
}
