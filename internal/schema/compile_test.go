package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfv/ruletypes/internal/rules"
	"github.com/bfv/ruletypes/internal/schema"
	"github.com/bfv/ruletypes/internal/typescript"
)

func compile(t *testing.T, set rules.Set) []schema.Property {
	t.Helper()
	descs := rules.NewParser().ParseSet(set)
	props, err := schema.NewCompiler(typescript.Formatter{}, schema.WithLogger(zerolog.Nop())).Compile(descs)
	require.NoError(t, err)
	return props
}

func field(path, spec string) rules.Field {
	return rules.Field{Path: path, Spec: rules.SplitSpec(spec)}
}

func TestCompile_Leaves(t *testing.T) {
	got := compile(t, rules.Set{
		field("name", "required|string"),
		field("secret", "required"),
		field("age", "required|integer"),
		field("nickname", "nullable|string"),
	})

	want := []schema.Property{
		{Name: "name", Types: []string{"string"}},
		{Name: "age", Types: []string{"number"}},
		{Name: "nickname", Types: []string{"string"}, Optional: true, Nullable: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_ScalarArray(t *testing.T) {
	got := compile(t, rules.Set{field("tags.*", "string")})
	assert.Equal(t, []schema.Property{{Name: "tags", Types: []string{"Array<string>"}, Optional: true}}, got)

	got = compile(t, rules.Set{
		field("tags", "required|array"),
		field("tags.*", "integer"),
	})
	assert.Equal(t, []schema.Property{{Name: "tags", Types: []string{"Array<number>"}}}, got)

	got = compile(t, rules.Set{field("list", "required|array")})
	assert.Equal(t, []schema.Property{{Name: "list", Types: []string{"any"}}}, got)
}

func TestCompile_NestedObject(t *testing.T) {
	got := compile(t, rules.Set{
		field("address.city", "required|string"),
		field("address.zip", "required|string"),
	})

	want := []schema.Property{{
		Name:     "address",
		Types:    []string{"{\n            city: string;\n            zip: string;\n        }"},
		Optional: true,
	}}
	assert.Equal(t, want, got)
}

func TestCompile_ArrayOfObjects(t *testing.T) {
	got := compile(t, rules.Set{
		field("items.*.name", "required|string"),
		field("items.*.qty", "required|integer"),
	})

	want := []schema.Property{{
		Name:     "items",
		Types:    []string{"Array<{\n            name: string;\n            qty: number;\n        }>"},
		Optional: true,
	}}
	assert.Equal(t, want, got)
}

func TestCompile_DeepNesting(t *testing.T) {
	got := compile(t, rules.Set{field("user.profile.bio", "string")})

	require.Len(t, got, 1)
	assert.Equal(t,
		"{\n            profile?: {\n                bio?: string;\n            };\n        }",
		got[0].Type())
}

func TestCompile_ArrayOfArrays(t *testing.T) {
	got := compile(t, rules.Set{
		field("matrix.*.*", "numeric"),
		field("matrix.*.label", "string"),
	})

	require.Len(t, got, 1)
	assert.Equal(t, []string{
		"Array<Array<number>>",
		"Array<{\n            label?: string;\n        }>",
	}, got[0].Types)
}

func TestCompile_Order(t *testing.T) {
	got := compile(t, rules.Set{
		field("b", "string"),
		field("tags.*", "string"),
		field("a", "string"),
		field("x.y", "string"),
		field("list", "array"),
		field("c", "string"),
	})

	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"b", "a", "c", "list", "tags", "x"}, names)
}

func TestCompile_LeafSeedsTreeRoot(t *testing.T) {
	got := compile(t, rules.Set{
		field("name", "string"),
		field("address", "required|string"),
		field("address.city", "string"),
		field("age", "integer"),
	})

	require.Len(t, got, 3)
	assert.Equal(t, "name", got[0].Name)
	assert.Equal(t, schema.Property{
		Name:  "address",
		Types: []string{"string", "{\n            city?: string;\n        }"},
	}, got[1])
	assert.Equal(t, "age", got[2].Name)
}

func TestCompile_Confirmed(t *testing.T) {
	got := compile(t, rules.Set{field("password", "required|string|confirmed")})

	assert.Equal(t, []schema.Property{
		{Name: "password", Types: []string{"string"}},
		{Name: "password_confirmation", Types: []string{"string"}},
	}, got)
}

func TestCompile_Conflict(t *testing.T) {
	descs := rules.NewParser().ParseSet(rules.Set{
		field("name", "string"),
		field("field.*", "string"),
		field("field.sub", "string"),
	})

	props, err := schema.NewCompiler(typescript.Formatter{}).Compile(descs)
	assert.Nil(t, props)
	assert.ErrorIs(t, err, schema.ErrConflict)
	assert.ErrorContains(t, err, `"field"`)
}

func TestCompile_Idempotent(t *testing.T) {
	set := rules.Set{
		field("z", "string"),
		field("items.*.name", "required|string"),
		field("items.*.tags.*", "string"),
		field("meta.a", "integer"),
		field("meta.b.c", "boolean"),
		field("a", "integer"),
	}

	first := compile(t, set)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, compile(t, set))
	}
}
