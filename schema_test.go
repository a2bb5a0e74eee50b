package shotdeck

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const q1JSON = `{"presentation":{"title":"T","slides":[{"type":"table","title":"Q1","headers":["A","B"],"rows":[["1","2"],["3","4"]]}]}}`

func TestParseTableSlide(t *testing.T) {
	res, err := Parse(q1JSON)
	require.NoError(t, err)

	want := PresentationDescriptor{
		Title: "T",
		Slides: []SlideDescriptor{
			TableSlide{
				Title:   "Q1",
				Headers: []string{"A", "B"},
				Rows:    [][]string{{"1", "2"}, {"3", "4"}},
			},
		},
	}
	if diff := cmp.Diff(want, res.Descriptor); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, res.Skipped)
}

func TestParseTextSlide(t *testing.T) {
	res, err := Parse(`{"presentation":{"title":"Notes","slides":[
		{"type":"text","title":"Summary","content":["first","second"]}
	]}}`)
	require.NoError(t, err)
	require.Len(t, res.Descriptor.Slides, 1)

	text, ok := res.Descriptor.Slides[0].(TextSlide)
	require.True(t, ok, "expected TextSlide, got %T", res.Descriptor.Slides[0])
	assert.Equal(t, "Summary", text.Title)
	assert.Equal(t, []string{"first", "second"}, text.Content)
}

func TestParseSkipsUnknownTypes(t *testing.T) {
	res, err := Parse(`{"presentation":{"title":"T","slides":[
		{"type":"text","title":"one","content":["a"]},
		{"type":"chart","title":"ignored","series":[1,2,3]},
		{"type":"table","title":"two","headers":["h"],"rows":[["v"]]}
	]}}`)
	require.NoError(t, err)

	require.Len(t, res.Descriptor.Slides, 2)
	assert.Equal(t, "one", res.Descriptor.Slides[0].SlideTitle())
	assert.Equal(t, "two", res.Descriptor.Slides[1].SlideTitle())
	assert.Equal(t, []SkippedSlide{{Index: 1, Type: "chart"}}, res.Skipped)
}

func TestParseSkipsNonStringTypes(t *testing.T) {
	res, err := Parse(`{"presentation":{"slides":[
		{"type":5,"title":"number"},
		{"type":null,"title":"null"},
		{"type":"TABLE","title":"upper","headers":["h"],"rows":[]},
		{"type":["text"],"title":"array"},
		{"type":"text","title":"kept","content":[]}
	]}}`)
	require.NoError(t, err)

	require.Len(t, res.Descriptor.Slides, 1)
	assert.Equal(t, "kept", res.Descriptor.Slides[0].SlideTitle())
	assert.Equal(t, []SkippedSlide{
		{Index: 0, Type: "5"},
		{Index: 1, Type: "null"},
		{Index: 2, Type: "TABLE"},
		{Index: 3, Type: `["text"]`},
	}, res.Skipped)
}

func TestParseKeepsMismatchedRows(t *testing.T) {
	res, err := Parse(`{"presentation":{"slides":[
		{"type":"table","title":"t","headers":["a","b"],"rows":[["1"],["1","2","3"]]}
	]}}`)
	require.NoError(t, err)
	table := res.Descriptor.Slides[0].(TableSlide)
	assert.Equal(t, [][]string{{"1"}, {"1", "2", "3"}}, table.Rows)
}

func TestParseNormalizesToNFC(t *testing.T) {
	// Decomposed "e" + combining acute accent in the input.
	res, err := Parse(`{"presentation":{"title":"Cafe\u0301","slides":[
		{"type":"text","title":"Re\u0301sume\u0301","content":["cre\u0300me"]}
	]}}`)
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", res.Descriptor.Title)
	assert.Equal(t, "R\u00e9sum\u00e9", res.Descriptor.Slides[0].SlideTitle())
	assert.Equal(t, []string{"cr\u00e8me"}, res.Descriptor.Slides[0].(TextSlide).Content)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantParse bool
		slide     int
		field     string
	}{
		{name: "empty input", input: "", wantParse: true},
		{name: "truncated", input: `{"presentation":`, wantParse: true},
		{name: "not json", input: "Here is your deck!", wantParse: true},
		{name: "top-level array", input: `[1,2]`, slide: -1},
		{name: "missing presentation", input: `{"deck":{}}`, slide: -1, field: "presentation"},
		{name: "presentation not object", input: `{"presentation":"x"}`, slide: -1, field: "presentation"},
		{name: "missing slides", input: `{"presentation":{"title":"T"}}`, slide: -1, field: "presentation.slides"},
		{name: "null slides", input: `{"presentation":{"slides":null}}`, slide: -1, field: "presentation.slides"},
		{name: "slides not array", input: `{"presentation":{"slides":{}}}`, slide: -1, field: "presentation.slides"},
		{name: "title not string", input: `{"presentation":{"title":3,"slides":[]}}`, slide: -1, field: "presentation.title"},
		{name: "slide not object", input: `{"presentation":{"slides":["x"]}}`, slide: 0},
		{name: "missing type", input: `{"presentation":{"slides":[{"title":"x"}]}}`, slide: 0, field: "type"},
		{name: "table missing headers", input: `{"presentation":{"slides":[{"type":"table","title":"x","rows":[]}]}}`, slide: 0, field: "headers"},
		{name: "table missing rows", input: `{"presentation":{"slides":[{"type":"table","title":"x","headers":["a"]}]}}`, slide: 0, field: "rows"},
		{name: "table missing title", input: `{"presentation":{"slides":[{"type":"table","headers":["a"],"rows":[]}]}}`, slide: 0, field: "title"},
		{name: "headers wrong type", input: `{"presentation":{"slides":[{"type":"table","title":"x","headers":"a","rows":[]}]}}`, slide: 0, field: "headers"},
		{name: "text missing content", input: `{"presentation":{"slides":[{"type":"text","title":"x"}]}}`, slide: 0, field: "content"},
		{name: "text null title", input: `{"presentation":{"slides":[{"type":"text","title":null,"content":[]}]}}`, slide: 0, field: "title"},
		{name: "second slide bad", input: `{"presentation":{"slides":[{"type":"text","title":"a","content":[]},{"type":"text","title":"b"}]}}`, slide: 1, field: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.input)
			require.Error(t, err)
			assert.Empty(t, res.Descriptor.Slides)

			if tt.wantParse {
				var pe *ParseError
				assert.True(t, errors.As(err, &pe), "want *ParseError, got %T: %v", err, err)
				return
			}
			var se *SchemaError
			require.True(t, errors.As(err, &se), "want *SchemaError, got %T: %v", err, err)
			assert.Equal(t, tt.slide, se.Slide)
			if tt.field != "" {
				assert.Equal(t, tt.field, se.Field)
			}
		})
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := Parse(`{"presentation": {"slides": [}`)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Greater(t, pe.Offset, int64(0))
	assert.Contains(t, pe.Error(), "offset")
}

func TestSchemaErrorMessage(t *testing.T) {
	err := NewSchemaError(2, "headers", "missing required field")
	assert.Equal(t, `schema error in slide 2, field "headers": missing required field`, err.Error())
}
