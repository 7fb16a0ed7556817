package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog map[string][]string

func (c fakeCatalog) ColumnTypes(table, column string) ([]string, bool) {
	tags, ok := c[table+"."+column]
	return tags, ok
}

func TestParse_Flags(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []Descriptor
	}{
		{
			name: "required integer",
			spec: "required|integer",
			want: []Descriptor{{Path: "f", Types: []string{"number"}}},
		},
		{
			name: "optional by default",
			spec: "string",
			want: []Descriptor{{Path: "f", Types: []string{"string"}, Optional: true}},
		},
		{
			name: "sometimes overrides required",
			spec: "sometimes|required|email",
			want: []Descriptor{{Path: "f", Types: []string{"string"}, Optional: true}},
		},
		{
			name: "present makes it mandatory",
			spec: "present|boolean",
			want: []Descriptor{{Path: "f", Types: []string{"boolean"}}},
		},
		{
			name: "nullable",
			spec: "nullable|numeric",
			want: []Descriptor{{Path: "f", Types: []string{"number"}, Optional: true, Nullable: true}},
		},
		{
			name: "file rules",
			spec: "required|image|dimensions:min_width=100",
			want: []Descriptor{{Path: "f", Types: []string{"Blob | File"}}},
		},
		{
			name: "duplicate names collapse",
			spec: "string|max:10|uuid|string",
			want: []Descriptor{{Path: "f", Types: []string{"string"}, Optional: true}},
		},
		{
			name: "empty spec is any",
			spec: "",
			want: []Descriptor{{Path: "f", Types: []string{"any"}, Optional: true}},
		},
		{
			name: "unknown rules only is any",
			spec: "max:3|in:a,b",
			want: []Descriptor{{Path: "f", Types: []string{"any"}, Optional: true}},
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse("f", SplitSpec(tt.spec)))
		})
	}
}

func TestParse_Dropped(t *testing.T) {
	p := NewParser()

	for _, spec := range []string{"required", "required|nullable|max:3", "prohibited", "prohibited|string"} {
		assert.Empty(t, p.Parse("f", SplitSpec(spec)), spec)
	}
}

func TestParse_Confirmed(t *testing.T) {
	p := NewParser()

	got := p.Parse("password", SplitSpec("required|string|confirmed"))
	assert.Equal(t, []Descriptor{
		{Path: "password", Types: []string{"string"}},
		{Path: "password_confirmation", Types: []string{"string"}},
	}, got)

	got = p.Parse("email", SplitSpec("nullable|email|confirmed:repeat_email"))
	require.Len(t, got, 2)
	assert.Equal(t, "repeat_email", got[1].Path)
	assert.True(t, got[1].Optional)
	assert.True(t, got[1].Nullable)
}

func TestParse_ListSpecIsNotSplit(t *testing.T) {
	p := NewParser()

	got := p.Parse("code", Spec{StringRule("required"), StringRule("regex:/^(a|b)$/")})
	assert.Equal(t, []Descriptor{{Path: "code", Types: []string{"string"}}}, got)
}

func TestParse_ObjectRules(t *testing.T) {
	p := NewParser(WithClassifier(NewConfigClassifier([]CustomRule{
		{Rule: `App\Rules\Money`, Types: []string{"number", "string"}},
	})))

	tests := []struct {
		name string
		rule ObjectRule
		want []string
	}{
		{"password", ObjectRule{Class: `Illuminate\Validation\Rules\Password`}, []string{"string"}},
		{"closure", ObjectRule{Class: "Closure"}, []string{"any"}},
		{"custom", ObjectRule{Class: `App\Rules\Money`}, []string{"number", "string"}},
		{"string form", ObjectRule{Class: `Illuminate\Validation\Rules\In`, Text: "integer"}, []string{"number"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse("f", Spec{StringRule("required"), tt.rule})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Types)
		})
	}

	assert.Empty(t, p.Parse("f", Spec{StringRule("required"), ObjectRule{Class: `App\Rules\Unknown`}}))
}

func TestParse_ExistsAndUnique(t *testing.T) {
	p := NewParser(WithCatalog(fakeCatalog{
		"users.id":       {"number"},
		"users.email":    {"string"},
		"posts.settings": {"Array<any>", "any"},
	}))

	tests := []struct {
		path string
		spec string
		want []string
	}{
		{"user_id", "required|exists:users,id", []string{"number"}},
		{"author.email", "required|unique:mysql.users", []string{"string"}},
		{"email", "required|unique:users,email,10,id", []string{"string"}},
		{"settings", "required|exists:posts,settings", []string{"Array<any>", "any"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got := p.Parse(tt.path, SplitSpec(tt.spec))
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Types)
		})
	}

	assert.Empty(t, p.Parse("team_id", SplitSpec("required|exists:teams,id")))
	assert.Empty(t, p.Parse("team_id", SplitSpec("required|exists")))
}

func TestParseSet_Order(t *testing.T) {
	p := NewParser()

	got := p.ParseSet(Set{
		{Path: "name", Spec: SplitSpec("required|string")},
		{Path: "secret", Spec: SplitSpec("required")},
		{Path: "pin", Spec: SplitSpec("required|digits:4|confirmed")},
		{Path: "age", Spec: SplitSpec("integer")},
		{Path: "pin_confirmation", Spec: SplitSpec("required|integer")},
	})

	var paths []string
	for _, d := range got {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"name", "pin", "pin_confirmation", "age"}, paths)
	assert.Equal(t, []string{"number"}, got[2].Types)
}
