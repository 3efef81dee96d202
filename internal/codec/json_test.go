package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conformalize/conformalize/internal/document"
)

func TestJSON_Encode(t *testing.T) {
	t.Parallel()

	doc := document.MapOf(
		"typeCheckingMode", "strict",
		"include", []string{"src", "tests"},
		"html", "<a&b>",
		"empty", document.NewMap(),
		"none", document.NewSeq(),
		"ratio", 1.5,
		"count", 2,
		"ok", false,
		"nil", nil,
	)
	out, err := JSON.Encode(doc)
	require.NoError(t, err)

	want := `{
  "typeCheckingMode": "strict",
  "include": [
    "src",
    "tests"
  ],
  "html": "<a&b>",
  "empty": {},
  "none": [],
  "ratio": 1.5,
  "count": 2,
  "ok": false,
  "nil": null
}
`
	assert.Equal(t, want, string(out))
}

func TestJSON_DecodeKeepsOrderAndNumbers(t *testing.T) {
	t.Parallel()

	doc, err := JSON.Decode([]byte(`{"z": 1, "a": {"y": 2.5, "b": [1, "x", null, true]}, "m": 1.0}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, doc.Keys())

	z, _ := doc.Get("z")
	assert.Equal(t, int64(1), z)
	m, _ := doc.Get("m")
	assert.Equal(t, 1.0, m)

	a, _ := doc.Get("a")
	assert.Equal(t, []string{"y", "b"}, a.(*document.Map).Keys())
	b, _ := a.(*document.Map).Get("b")
	assert.True(t, document.Equal(document.SeqOf(1, "x", nil, true), b))

	out, err := JSON.Encode(doc)
	require.NoError(t, err)
	back, err := JSON.Decode(out)
	require.NoError(t, err)
	assert.True(t, JSON.Equal(doc, back))
}

func TestJSON_Errors(t *testing.T) {
	t.Parallel()

	t.Run("decode", func(t *testing.T) {
		t.Parallel()
		tests := map[string]string{
			"syntax":        `{"a": }`,
			"trailing data": `{} {}`,
			"truncated":     `{"a": [1, 2`,
		}
		for name, input := range tests {
			_, err := JSON.Decode([]byte(input))
			assert.Error(t, err, name)
		}
	})

	t.Run("root must be an object", func(t *testing.T) {
		t.Parallel()
		_, err := JSON.Decode([]byte(`[1, 2]`))
		assert.ErrorIs(t, err, document.ErrTypeMismatch)
	})

	t.Run("empty input is an empty object", func(t *testing.T) {
		t.Parallel()
		doc, err := JSON.Decode([]byte("  \n"))
		require.NoError(t, err)
		assert.Equal(t, 0, doc.Len())
	})

	t.Run("non-finite floats", func(t *testing.T) {
		t.Parallel()
		for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := JSON.Encode(document.MapOf("x", f))
			assert.ErrorIs(t, err, ErrSerialization)
		}
	})
}
