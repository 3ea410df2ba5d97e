package docmeta

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine_DecodesDocument(t *testing.T) {
	doc, err := ParseLine([]byte(`{"id": 3, "text": "a quick fox", "sku": "A-1"}`))
	require.NoError(t, err)
	require.Equal(t, uint32(3), doc.ID)
	require.Equal(t, "a quick fox", doc.Text)
}

func TestParseLine_RejectsMissingID(t *testing.T) {
	_, err := ParseLine([]byte(`{"text": "no id here"}`))
	require.Error(t, err)
}

func TestParseLine_RejectsNonObject(t *testing.T) {
	_, err := ParseLine([]byte(`[1,2,3]`))
	require.Error(t, err)
}

func TestFieldValue_TopLevelPath(t *testing.T) {
	doc, err := ParseLine([]byte(`{"id": 1, "sku": "A-1"}`))
	require.NoError(t, err)

	v, ok, err := FieldValue(doc, "$.sku")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A-1", v)
}

func TestFieldValue_NestedPath(t *testing.T) {
	doc, err := ParseLine([]byte(`{"id": 1, "meta": {"color": "red"}}`))
	require.NoError(t, err)

	v, ok, err := FieldValue(doc, "$.meta.color")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "red", v)
}

func TestFieldValue_MissingPath(t *testing.T) {
	doc, err := ParseLine([]byte(`{"id": 1}`))
	require.NoError(t, err)

	_, ok, err := FieldValue(doc, "$.missing")
	require.NoError(t, err)
	require.False(t, ok)
}
