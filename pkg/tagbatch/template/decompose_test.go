package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Parts
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "literal only",
			input: "plain text",
			want:  Parts{Literal{Text: "plain text", Raw: "plain text"}},
		},
		{
			name:  "property",
			input: "$(Configuration)",
			want:  Parts{PropertyPart{Name: "Configuration"}},
		},
		{
			name:  "property with whitespace",
			input: "$( Configuration )",
			want:  Parts{PropertyPart{Name: "Configuration"}},
		},
		{
			name:  "tag",
			input: "%(Origin)",
			want:  Parts{TagPart{Key: "Origin"}},
		},
		{
			name:  "prefixed tag",
			input: "%(ProjectOutput . Origin)",
			want:  Parts{TagPart{Item: "ProjectOutput", Key: "Origin"}},
		},
		{
			name:  "plain item",
			input: "@(ProjectOutput)",
			want:  Parts{ItemPart{Item: "ProjectOutput"}},
		},
		{
			name:  "item with separator",
			input: "@(Src, ' ')",
			want:  Parts{ItemPart{Item: "Src", Separator: " ", HasSeparator: true}},
		},
		{
			name:  "mixed",
			input: "$(Out)/%(Dir)x",
			want: Parts{
				PropertyPart{Name: "Out"},
				Literal{Text: "/", Raw: "/"},
				TagPart{Key: "Dir"},
				Literal{Text: "x", Raw: "x"},
			},
		},
		{
			name:  "escaped literal",
			input: "a%3Bb",
			want:  Parts{Literal{Text: "a;b", Raw: "a%3Bb"}},
		},
		{
			name:  "escaped opener is not a reference",
			input: "%24(X)",
			want:  Parts{Literal{Text: "$(X)", Raw: "%24(X)"}},
		},
		{
			name:  "incomplete references stay literal",
			input: "@(X $(Y %(",
			want:  Parts{Literal{Text: "@(X $(Y %(", Raw: "@(X $(Y %("}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompose(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParts_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$( Out )/x", "$(Out)/x"},
		{"%(Src . Origin)", "%(Src.Origin)"},
		{"@(Src , ' ')", "@(Src,' ')"},
		{"@(Src=>'%(Filename)')", "@(Src=>'%(Filename)')"},
		{"a%3Bb", "a%3Bb"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MustDecompose(tt.input).String())
		})
	}
}

func TestDecompose_Transform(t *testing.T) {
	tests := []struct {
		input     string
		arrow     string
		transform string
		sep       string
		hasSep    bool
	}{
		{"@(Src->'%(Filename).obj')", "->", "%(Filename).obj", "", false},
		{"@(Src=>'%(Filename).obj')", "=>", "%(Filename).obj", "", false},
		{"@(Src -> '%(Filename)' , ';')", "->", "%(Filename)", ";", true},
		{"@(Src->'x','')", "->", "x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parts, err := Decompose(tt.input)
			require.NoError(t, err)
			require.Len(t, parts, 1)

			ip, ok := parts[0].(ItemPart)
			require.True(t, ok)
			assert.Equal(t, "Src", ip.Item)
			assert.True(t, ip.HasTransform)
			assert.Equal(t, tt.arrow, ip.Arrow)
			assert.Equal(t, tt.transform, ip.Transform)
			assert.Equal(t, tt.hasSep, ip.HasSeparator)
			assert.Equal(t, tt.sep, ip.Separator)
			assert.NotEmpty(t, ip.TransformParts)
		})
	}
}

func TestDecompose_NestedItemInTransform(t *testing.T) {
	_, err := Decompose("@(A->'@(B)')")
	require.ErrorIs(t, err, ErrNestedItem)

	assert.Panics(t, func() { MustDecompose("@(A->'@(B)')") })
}

func TestDecompose_WithAllowed(t *testing.T) {
	parts, err := Decompose("@(X) $(Y) %(Z)", WithAllowed(KindProperty))
	require.NoError(t, err)
	assert.Equal(t, Parts{
		Literal{Text: "@(X) ", Raw: "@(X) "},
		PropertyPart{Name: "Y"},
		Literal{Text: " %(Z)", Raw: " %(Z)"},
	}, parts)
}

func TestListSemantics(t *testing.T) {
	assert.True(t, ItemPart{Item: "A"}.ListSemantics())
	assert.True(t, ItemPart{Item: "A", Separator: ";", HasSeparator: true}.ListSemantics())
	assert.False(t, ItemPart{Item: "A", Separator: ",", HasSeparator: true}.ListSemantics())
	assert.False(t, ItemPart{Item: "A", HasSeparator: true}.ListSemantics())
}

func TestInventories(t *testing.T) {
	parts := MustDecompose("%(Origin) @(Src->'%(Filename)$(Ext)') %(Src.Origin) @(Lib) $(Out) %(origin) @(src)")

	assert.Equal(t, []string{"Src", "Lib"}, parts.Items())
	assert.Equal(t, []string{"Ext", "Out"}, parts.Properties())
	assert.Equal(t, []TagRef{
		{Key: "Origin"},
		{Item: "Src", Key: "Filename", Nested: true},
		{Item: "Src", Key: "Origin"},
	}, parts.Tags())
	assert.True(t, parts.HasListItem())
	assert.False(t, parts.IsLiteral())
	assert.True(t, MustDecompose("abc").IsLiteral())
}

func TestParseReferences(t *testing.T) {
	ip, ok, err := ParseItemReference("@(Src->'%(Filename)',',')")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Src", ip.Item)
	assert.Equal(t, ",", ip.Separator)
	assert.Equal(t, Parts{TagPart{Key: "Filename"}}, ip.TransformParts)

	ip, ok, err = ParseItemReference("@(Src=>'$(Out)/%(Src.Origin)')")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "=>", ip.Arrow)
	assert.Equal(t, Parts{
		PropertyPart{Name: "Out"},
		Literal{Text: "/", Raw: "/"},
		TagPart{Item: "Src", Key: "Origin"},
	}, ip.TransformParts)

	_, ok, err = ParseItemReference("@(Src) tail")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ParseItemReference("@(A->'@(B)')")
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrNestedItem)

	tp, ok := ParseTagReference("%(Src.Origin)")
	require.True(t, ok)
	assert.Equal(t, TagPart{Item: "Src", Key: "Origin"}, tp)

	_, ok = ParseTagReference("%(a.b.c)")
	assert.False(t, ok)

	pp, ok := ParsePropertyReference("$( Out )")
	require.True(t, ok)
	assert.Equal(t, "Out", pp.Name)

	_, ok = ParsePropertyReference("$(Out")
	assert.False(t, ok)
}
