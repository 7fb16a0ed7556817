// Package model renders entity metadata (columns, relations and accessors)
// as property records.
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/bfv/ruletypes/internal/catalog"
	"github.com/bfv/ruletypes/internal/rules"
	"github.com/bfv/ruletypes/internal/schema"
)

// Relation kinds.
const (
	HasMany        = "hasMany"
	BelongsToMany  = "belongsToMany"
	HasManyThrough = "hasManyThrough"
	MorphMany      = "morphMany"
	MorphToMany    = "morphToMany"
	HasOne         = "hasOne"
	BelongsTo      = "belongsTo"
	MorphOne       = "morphOne"
	HasOneThrough  = "hasOneThrough"
)

var (
	manyKinds = map[string]bool{HasMany: true, BelongsToMany: true, HasManyThrough: true, MorphMany: true, MorphToMany: true}
	oneKinds  = map[string]bool{HasOne: true, BelongsTo: true, MorphOne: true, HasOneThrough: true}
)

// Relation is a relationship to another entity.
type Relation struct {
	Name    string `yaml:"name" json:"name"`
	Kind    string `yaml:"kind" json:"kind"`
	Related string `yaml:"related" json:"related"`
}

// Many reports whether the relation yields a collection.
func (r Relation) Many() bool {
	return manyKinds[r.Kind]
}

// Accessor is a computed attribute.
type Accessor struct {
	Name  string   `yaml:"name" json:"name"`
	Types []string `yaml:"types" json:"types"`
}

// Entity is the on-disk model description. Columns may be listed inline or
// taken from a catalog table.
type Entity struct {
	Name      string           `yaml:"name" json:"name"`
	Namespace string           `yaml:"namespace" json:"namespace"`
	Table     string           `yaml:"table" json:"table"`
	Columns   []catalog.Column `yaml:"columns" json:"columns"`
	Relations []Relation       `yaml:"relations" json:"relations"`
	Accessors []Accessor       `yaml:"accessors" json:"accessors"`
}

// Load reads an entity from a YAML or JSON file.
func Load(path string) (*Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var e Entity
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &e)
	} else {
		err = yaml.Unmarshal(data, &e)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding model %s: %w", path, err)
	}
	if e.Name == "" {
		base := filepath.Base(path)
		e.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &e, nil
}

// TableSource lists the columns of a table.
type TableSource interface {
	Columns(table string) ([]catalog.Column, bool)
}

// Properties renders columns, then relations, then relation counts, then
// accessors. When the entity names a table and has no inline columns, the
// columns come from tables.
func (e *Entity) Properties(tables TableSource) ([]schema.Property, error) {
	columns := e.Columns
	if len(columns) == 0 && e.Table != "" {
		if tables == nil {
			return nil, fmt.Errorf("model %s: table %q needs a catalog", e.Name, e.Table)
		}
		cols, ok := tables.Columns(e.Table)
		if !ok {
			return nil, fmt.Errorf("model %s: table %q not found in catalog", e.Name, e.Table)
		}
		columns = cols
	}

	var out []schema.Property
	taken := map[string]bool{}
	for _, c := range columns {
		out = append(out, schema.Property{
			Name:     c.Name,
			Types:    catalog.TagsForColumnType(c.Type),
			Nullable: c.Nullable,
		})
		taken[c.Name] = true
	}

	for _, r := range e.Relations {
		out = append(out, schema.Property{
			Name:     r.Name,
			Types:    []string{relationType(r)},
			Optional: true,
			Nullable: true,
		})
		taken[r.Name] = true
	}

	for _, r := range e.Relations {
		if !r.Many() {
			continue
		}
		out = append(out, schema.Property{
			Name:     r.Name + "_count",
			Types:    []string{rules.TagNumber},
			Optional: true,
			Nullable: true,
		})
	}

	for _, a := range e.Accessors {
		if taken[a.Name] {
			continue
		}
		types := a.Types
		if len(types) == 0 {
			types = []string{rules.TagAny}
		}
		out = append(out, schema.Property{
			Name:     a.Name,
			Types:    types,
			Optional: true,
			Readonly: true,
		})
	}
	return out, nil
}

func relationType(r Relation) string {
	related := strings.ReplaceAll(r.Related, `\`, ".")
	switch {
	case related == "":
		return rules.TagAny
	case manyKinds[r.Kind]:
		return "Array<" + related + ">"
	case oneKinds[r.Kind]:
		return related
	default:
		return rules.TagAny
	}
}
