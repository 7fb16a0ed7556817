// Package typescript writes property records as TypeScript declarations.
package typescript

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/bfv/ruletypes/internal/schema"
)

var reIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Formatter formats properties as interface members.
type Formatter struct{}

// FormatProperty implements schema.Formatter.
func (Formatter) FormatProperty(p schema.Property) string {
	var b strings.Builder
	if p.Readonly {
		b.WriteString("readonly ")
	}
	b.WriteString(PropertyName(p.Name))
	if p.Optional {
		b.WriteString("?")
	}
	b.WriteString(": ")
	b.WriteString(p.Type())
	if p.Nullable {
		b.WriteString(" | null")
	}
	b.WriteString(";")
	return b.String()
}

// PropertyName quotes names that are not plain identifiers.
func PropertyName(name string) string {
	if reIdentifier.MatchString(name) {
		return name
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name) + "'"
}

// Definition is one interface to be declared.
type Definition struct {
	Namespace  string
	Name       string
	Properties []schema.Property
}

// Render writes definitions grouped by namespace, in first-seen namespace
// order. Definitions without properties are skipped.
func Render(w io.Writer, defs []Definition) error {
	var order []string
	groups := map[string][]Definition{}
	for _, d := range defs {
		if len(d.Properties) == 0 {
			continue
		}
		if _, ok := groups[d.Namespace]; !ok {
			order = append(order, d.Namespace)
		}
		groups[d.Namespace] = append(groups[d.Namespace], d)
	}

	bw := bufio.NewWriter(w)
	var f Formatter
	for i, ns := range order {
		if i > 0 {
			bw.WriteString("\n")
		}
		bw.WriteString("declare namespace " + ns + " {\n")
		for j, d := range groups[ns] {
			if j > 0 {
				bw.WriteString("\n")
			}
			bw.WriteString("    export interface " + d.Name + " {\n")
			for _, p := range d.Properties {
				bw.WriteString("        " + f.FormatProperty(p) + "\n")
			}
			bw.WriteString("    }\n")
		}
		bw.WriteString("}\n")
	}
	return bw.Flush()
}

// Record is the JSON form of a rendered property.
type Record struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
	Nullable bool   `json:"nullable"`
	Readonly bool   `json:"readonly,omitempty"`
}

type jsonDefinition struct {
	Namespace  string   `json:"namespace"`
	Name       string   `json:"name"`
	Properties []Record `json:"properties"`
}

// RenderJSON writes definitions as a JSON array of records.
func RenderJSON(w io.Writer, defs []Definition) error {
	out := make([]jsonDefinition, 0, len(defs))
	for _, d := range defs {
		jd := jsonDefinition{Namespace: d.Namespace, Name: d.Name, Properties: make([]Record, 0, len(d.Properties))}
		for _, p := range d.Properties {
			jd.Properties = append(jd.Properties, Record{
				Name:     p.Name,
				Type:     p.Type(),
				Optional: p.Optional,
				Nullable: p.Nullable,
				Readonly: p.Readonly,
			})
		}
		out = append(out, jd)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
