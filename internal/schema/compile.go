package schema

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bfv/ruletypes/internal/rules"
)

// Property is one rendered declaration.
type Property struct {
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	Optional bool     `json:"optional"`
	Nullable bool     `json:"nullable"`
	Readonly bool     `json:"readonly,omitempty"`
}

// Type joins the type alternatives into one union expression.
func (p Property) Type() string {
	return strings.Join(p.Types, " | ")
}

// Formatter renders a property as one declaration line. It is used for the
// members of nested object types.
type Formatter interface {
	FormatProperty(p Property) string
}

// Compiler turns descriptors into ordered property records.
type Compiler struct {
	format Formatter
	logger zerolog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the compiler logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// NewCompiler returns a compiler that renders nested members with format.
func NewCompiler(format Formatter, opts ...Option) *Compiler {
	c := &Compiler{format: format, logger: log.Logger}
	for _, o := range opts {
		o(c)
	}
	return c
}

func isStructured(d rules.Descriptor) bool {
	return d.HasType(rules.TagArray) || strings.Contains(d.Path, ".")
}

// partition separates plain leaves from the tree input. A leaf whose name
// is also the head of a structured path seeds that root, so it is returned
// in both and reported in heads.
func partition(descs []rules.Descriptor) (simple, input []rules.Descriptor, heads map[string]bool) {
	var structured []rules.Descriptor
	heads = map[string]bool{}
	for _, d := range descs {
		if isStructured(d) {
			structured = append(structured, d)
			head, _, _ := strings.Cut(d.Path, ".")
			heads[head] = true
			continue
		}
		simple = append(simple, d)
	}
	for _, d := range simple {
		if heads[d.Path] {
			input = append(input, d)
		}
	}
	return simple, append(input, structured...), heads
}

// BuildSchema builds the tree for the structured part of descs.
func BuildSchema(descs []rules.Descriptor) (*Tree, error) {
	_, input, _ := partition(descs)
	return Build(input)
}

// Compile renders descriptors. Plain leaves keep declaration order and come
// first; tree roots follow in first-seen order. A leaf whose name is also a
// tree root is rendered as that root in the leaf's position.
func (c *Compiler) Compile(descs []rules.Descriptor) ([]Property, error) {
	simple, input, heads := partition(descs)
	tree, err := Build(input)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Int("leaves", len(simple)).Int("roots", len(tree.Roots)).Msg("schema tree built")

	out := make([]Property, 0, len(simple)+len(tree.Roots))
	emitted := map[NodeID]bool{}
	for _, d := range simple {
		if id, ok := tree.Lookup(d.Path); ok && heads[d.Path] {
			out = append(out, c.render(tree, id, 1))
			emitted[id] = true
			continue
		}
		out = append(out, leaf(d))
	}
	for _, id := range tree.Roots {
		if !emitted[id] {
			out = append(out, c.render(tree, id, 1))
		}
	}
	return out, nil
}

func leaf(d rules.Descriptor) Property {
	types := slices.Clone(d.Types)
	if len(types) == 0 {
		types = []string{rules.TagAny}
	}
	return Property{Name: d.Path, Types: types, Optional: d.Optional, Nullable: d.Nullable}
}

// render renders one node. depth only drives the indentation of nested
// object members.
func (c *Compiler) render(t *Tree, id NodeID, depth int) Property {
	n := t.Node(id)
	p := Property{Name: n.Name, Optional: n.Optional, Nullable: n.Nullable}
	isArray, touched := n.Array()

	if len(n.Children) == 0 {
		switch {
		case len(n.Types) == 0:
			p.Types = []string{rules.TagAny}
		case touched:
			if !isArray {
				c.logger.Warn().Str("property", n.Path).Msg("wrapping non-array property as Array")
			}
			p.Types = []string{"Array<" + strings.Join(n.Types, " | ") + ">"}
		default:
			p.Types = slices.Clone(n.Types)
		}
		return p
	}

	p.Types = slices.Clone(n.Types)

	var named []NodeID
	for _, cid := range n.Children {
		if t.Node(cid).Name != "*" {
			named = append(named, cid)
			continue
		}
		alt := "Array<" + c.render(t, cid, depth).Type() + ">"
		if isArray {
			alt = "Array<" + alt + ">"
		}
		p.Types = append(p.Types, alt)
	}

	if len(named) > 0 {
		prefix := strings.Repeat(" ", 8+depth*4)
		var b strings.Builder
		b.WriteString("{\n")
		for _, cid := range named {
			b.WriteString(prefix)
			b.WriteString(c.format.FormatProperty(c.render(t, cid, depth+1)))
			b.WriteString("\n")
		}
		b.WriteString(prefix[4:])
		b.WriteString("}")

		obj := b.String()
		if isArray {
			obj = "Array<" + obj + ">"
		}
		p.Types = append(p.Types, obj)
	}
	return p
}
