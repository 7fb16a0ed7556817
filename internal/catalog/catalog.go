// Package catalog resolves database column types for exists and unique rules
// and for model columns.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Column describes one table column.
type Column struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Nullable bool   `yaml:"nullable" json:"nullable"`
}

// Table is a named list of columns.
type Table struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []Column `yaml:"columns" json:"columns"`
}

// Document is the on-disk catalog format.
type Document struct {
	Prefix string  `yaml:"prefix" json:"prefix"`
	Tables []Table `yaml:"tables" json:"tables"`
}

// Catalog is a read-only table/column index. Table names are stored with
// their prefix; lookups take the unprefixed name.
type Catalog struct {
	prefix  string
	tables  map[string]map[string]Column
	ordered map[string][]Column
}

// New indexes tables under prefix.
func New(prefix string, tables []Table) *Catalog {
	c := &Catalog{
		prefix:  prefix,
		tables:  make(map[string]map[string]Column, len(tables)),
		ordered: make(map[string][]Column, len(tables)),
	}
	for _, t := range tables {
		cols := make(map[string]Column, len(t.Columns))
		for _, col := range t.Columns {
			cols[col.Name] = col
		}
		c.tables[t.Name] = cols
		c.ordered[t.Name] = t.Columns
	}
	return c
}

// Load reads a catalog document. JSON is used for .json files, YAML
// otherwise. A non-empty prefix overrides the document prefix.
func Load(path, prefix string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}

	if prefix == "" {
		prefix = doc.Prefix
	}
	return New(prefix, doc.Tables), nil
}

// Columns returns the columns of an unprefixed table in declaration order.
func (c *Catalog) Columns(table string) ([]Column, bool) {
	cols, ok := c.ordered[c.prefix+table]
	return cols, ok
}

// Column returns the column of an unprefixed table.
func (c *Catalog) Column(table, column string) (Column, bool) {
	cols, ok := c.tables[c.prefix+table]
	if !ok {
		return Column{}, false
	}
	col, ok := cols[column]
	return col, ok
}

// ColumnTypes implements rules.ColumnCatalog.
func (c *Catalog) ColumnTypes(table, column string) ([]string, bool) {
	col, ok := c.Column(table, column)
	if !ok {
		return nil, false
	}
	return TagsForColumnType(col.Type), true
}

// TagsForColumnType maps an SQL column type name to scalar tags.
func TagsForColumnType(typeName string) []string {
	switch strings.ToLower(typeName) {
	case "json", "jsonb", "array", "simple_array":
		return []string{"Array<any>", "any"}
	case "string", "char", "varchar", "tinytext", "text", "mediumtext", "longtext",
		"binary", "varbinary", "blob", "tinyblob", "mediumblob", "longblob", "bytea",
		"date", "datetime", "datetimetz", "timestamp", "timestamptz", "time", "timetz",
		"dateinterval", "interval", "year", "uuid", "guid", "ulid", "enum", "set":
		return []string{"string"}
	case "int", "integer", "tinyint", "smallint", "mediumint", "bigint", "int2", "int4", "int8",
		"float", "double", "decimal", "numeric", "real", "float4", "float8", "money":
		return []string{"number"}
	case "bool", "boolean":
		return []string{"boolean"}
	default:
		return []string{"any"}
	}
}
