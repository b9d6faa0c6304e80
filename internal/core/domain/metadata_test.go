package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValue_Variants(t *testing.T) {
	tests := []struct {
		name    string
		value   MetadataValue
		kind    ValueKind
		str     string
		literal string
		plain   any
	}{
		{"string", StringValue("반도체"), KindString, "반도체", `"반도체"`, "반도체"},
		{"int", IntValue(2024), KindInt, "2024", "2024", int64(2024)},
		{"float", FloatValue(1.5), KindFloat, "1.5", "1.5", 1.5},
		{"bool", BoolValue(true), KindBool, "true", "true", true},
		{"zero value", MetadataValue{}, KindString, "", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.str, tt.value.String())
			assert.Equal(t, tt.literal, tt.value.Literal())
			assert.Equal(t, tt.plain, tt.value.Any())
		})
	}
}

func TestValueOf(t *testing.T) {
	v, err := ValueOf(3)
	require.NoError(t, err)
	i, ok := v.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)

	v, err = ValueOf(json.Number("2.25"))
	require.NoError(t, err)
	f, ok := v.Float()
	assert.True(t, ok)
	assert.Equal(t, 2.25, f)

	_, err = ValueOf([]string{"x"})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestMetadataValue_JSON(t *testing.T) {
	in := Metadata{
		"year":    IntValue(2024),
		"score":   FloatValue(0.5),
		"draft":   BoolValue(false),
		"source":  StringValue("report.md"),
		"quarter": IntValue(1),
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Metadata
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMetadataValue_UnmarshalRejectsObjects(t *testing.T) {
	var v MetadataValue
	err := json.Unmarshal([]byte(`{"a":1}`), &v)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestMetadata_Literal(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		want string
	}{
		{"nil", nil, "{}"},
		{"empty", Metadata{}, "{}"},
		{
			name: "sorted keys",
			meta: Metadata{"year": IntValue(2024), "quarter": IntValue(1)},
			want: "{quarter: 1, year: 2024}",
		},
		{
			name: "mixed kinds",
			meta: Metadata{"b": BoolValue(true), "a": StringValue("x y"), "c": FloatValue(0.25)},
			want: `{a: "x y", b: true, c: 0.25}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.meta.Literal())
		})
	}
}

func TestMetadata_Matches(t *testing.T) {
	meta := Metadata{"year": IntValue(2024), "quarter": IntValue(1)}

	assert.True(t, meta.Matches(nil))
	assert.True(t, meta.Matches(MetadataFilter{"year": IntValue(2024)}))
	assert.False(t, meta.Matches(MetadataFilter{"year": IntValue(2023)}))
	assert.False(t, meta.Matches(MetadataFilter{"year": StringValue("2024")}))
	assert.False(t, meta.Matches(MetadataFilter{"industry": StringValue("steel")}))
}

func TestMetadata_MergeDoesNotMutate(t *testing.T) {
	base := Metadata{"year": IntValue(2024)}
	merged := base.Merge(Metadata{"page": IntValue(3)})

	assert.Len(t, base, 1)
	assert.Equal(t, IntValue(3), merged["page"])
	assert.Equal(t, IntValue(2024), merged["year"])
}

func TestChunk_ToDocument(t *testing.T) {
	c := Chunk{
		ID:       "c1",
		Content:  "text",
		Metadata: Metadata{"page": IntValue(1)},
	}
	doc := c.ToDocument()
	doc.Metadata["page"] = IntValue(9)

	assert.Equal(t, "c1", doc.ID)
	assert.Equal(t, IntValue(1), c.Metadata["page"])
}
