package rules

import (
	"slices"
	"strings"
)

// Descriptor is the flat type description of one declared path.
type Descriptor struct {
	Path     string
	Types    []string
	Optional bool
	Nullable bool
}

// HasType reports whether tag is among the descriptor types.
func (d Descriptor) HasType(tag string) bool {
	return slices.Contains(d.Types, tag)
}

// Parser classifies rule specifications into descriptors.
type Parser struct {
	table      NameTable
	classifier Classifier
	catalog    ColumnCatalog
}

// Option configures a Parser.
type Option func(*Parser)

// WithNameTable replaces the built-in name table.
func WithNameTable(t NameTable) Option {
	return func(p *Parser) { p.table = t }
}

// WithClassifier sets the classifier used for object rules.
func WithClassifier(c Classifier) Option {
	return func(p *Parser) { p.classifier = c }
}

// WithCatalog sets the column catalog used by exists and unique rules.
func WithCatalog(c ColumnCatalog) Option {
	return func(p *Parser) { p.catalog = c }
}

// NewParser returns a parser using the built-in name table and a classifier
// without custom rules unless overridden.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		table:      DefaultNameTable(),
		classifier: NewConfigClassifier(nil),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ParseSet parses every field of a rule set. A path produced twice, e.g. by a
// confirmation alias, keeps its first position and its last descriptor.
func (p *Parser) ParseSet(set Set) []Descriptor {
	var out []Descriptor
	index := map[string]int{}
	for _, f := range set {
		for _, d := range p.Parse(f.Path, f.Spec) {
			if i, ok := index[d.Path]; ok {
				out[i] = d
				continue
			}
			index[d.Path] = len(out)
			out = append(out, d)
		}
	}
	return out
}

// Parse returns the descriptors for one path: none when the field is dropped,
// one normally, and two when the field is confirmed.
func (p *Parser) Parse(path string, spec Spec) []Descriptor {
	tokens := newTokenSet()
	for _, r := range spec {
		p.collect(path, r, tokens)
	}
	if tokens.empty() {
		tokens.add(Token{Name: TagAny})
	}
	if tokens.has(Prohibited) {
		return nil
	}

	types := tokens.types()
	if len(types) == 0 {
		return nil
	}

	d := Descriptor{
		Path:     path,
		Types:    types,
		Optional: tokens.has(Sometimes) || !(tokens.has(Present) || tokens.has(Required)),
		Nullable: tokens.has(Nullable),
	}
	out := []Descriptor{d}

	if alias, ok := tokens.arg(Confirmed); ok {
		if alias == "" {
			alias = path + "_confirmation"
		}
		c := d
		c.Path = alias
		c.Types = slices.Clone(types)
		out = append(out, c)
	}
	return out
}

func (p *Parser) collect(path string, r Rule, tokens *tokenSet) {
	switch r := r.(type) {
	case StringRule:
		p.collectString(path, string(r), tokens)
	case ObjectRule:
		if r.Text != "" {
			p.collectString(path, r.Text, tokens)
			return
		}
		if p.classifier == nil {
			return
		}
		for _, t := range p.classifier.Classify(r) {
			tokens.add(t)
		}
	}
}

func (p *Parser) collectString(path, rule string, tokens *tokenSet) {
	name, arg, _ := strings.Cut(rule, ":")
	for _, tag := range p.resolve(path, name, arg) {
		tokens.add(Token{Name: tag, Arg: arg})
	}
}

// resolve maps a rule name to the tags it contributes.
func (p *Parser) resolve(path, name, arg string) []string {
	if IsControl(name) {
		return []string{name}
	}
	switch name {
	case "exists", "unique":
		return p.resolveColumn(path, arg)
	}
	if tag, ok := p.table.Lookup(name); ok {
		return []string{tag}
	}
	return nil
}

// resolveColumn looks up the column referenced by an exists or unique
// argument of the form "[connection.]table[,column[,...]]". The column
// defaults to the last segment of the property path.
func (p *Parser) resolveColumn(path, arg string) []string {
	if p.catalog == nil || arg == "" {
		return nil
	}
	table, rest, _ := strings.Cut(arg, ",")
	if i := strings.LastIndex(table, "."); i >= 0 {
		table = table[i+1:]
	}
	column, _, _ := strings.Cut(rest, ",")
	if column == "" || strings.EqualFold(column, "NULL") {
		column = path[strings.LastIndex(path, ".")+1:]
	}
	tags, ok := p.catalog.ColumnTypes(table, column)
	if !ok {
		return nil
	}
	return tags
}
