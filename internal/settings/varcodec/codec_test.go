package varcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhub/community-settings/internal/settings/domain"
)

func pairs(items []domain.VariableItem) []domain.NamedValue {
	out := make([]domain.NamedValue, 0, len(items))
	for _, it := range items {
		out = append(out, domain.NamedValue{Name: it.Name, Value: it.Value})
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []domain.NamedValue
	}{
		{"empty", "", []domain.NamedValue{}},
		{"whitespace", "   ", []domain.NamedValue{}},
		{"single", "(Phone||+1 555 0100)", []domain.NamedValue{{Name: "Phone", Value: "+1 555 0100"}}},
		{
			"several with loose spacing",
			"(Phone||123),(Address||Main st 1)  ,   (Website||https://example.com)",
			[]domain.NamedValue{
				{Name: "Phone", Value: "123"},
				{Name: "Address", Value: "Main st 1"},
				{Name: "Website", Value: "https://example.com"},
			},
		},
		{
			"malformed segments dropped",
			"(Phone||123), (broken), (a||b||c), (Website||x)",
			[]domain.NamedValue{{Name: "Phone", Value: "123"}, {Name: "Website", Value: "x"}},
		},
		{"empty value kept", "(Hours||)", []domain.NamedValue{{Name: "Hours", Value: ""}}},
		{"without wrapping parens", "Phone||1", []domain.NamedValue{{Name: "Phone", Value: "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, pairs(got))
		})
	}
}

func TestParse_GeneratesDistinctIDs(t *testing.T) {
	got := Parse("(a||1), (a||1)")
	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestSerialize(t *testing.T) {
	items := []domain.VariableItem{
		{ID: "1", Name: " Phone ", Value: " 123 "},
		{ID: "2", Name: "  ", Value: ""},
		{ID: "3", Name: "", Value: "orphan"},
		{ID: "4", Name: "Website", Value: ""},
	}
	assert.Equal(t, "(Phone||123), (||orphan), (Website||)", Serialize(items))
	assert.Equal(t, "", Serialize(nil))
}

func TestRoundTrip(t *testing.T) {
	cases := [][]domain.VariableItem{
		{{Name: "Phone", Value: "123"}},
		{{Name: "Phone", Value: "123"}, {Name: "Phone", Value: "456"}},
		{{Name: "Hours", Value: ""}, {Name: "", Value: "value only"}, {Name: "Site", Value: "a (b)"}},
		{{Name: "Note", Value: "ends with paren)"}, {Name: "(starts", Value: "x"}},
	}
	for _, items := range cases {
		got := Parse(Serialize(items))
		assert.ElementsMatch(t, pairs(items), pairs(got))
	}
}
