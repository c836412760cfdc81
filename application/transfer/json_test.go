package transfer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
)

const validDocument = `{
  "algorithms": [
    {
      "id": "curb-65-disposition",
      "name": "CURB-65 Disposition",
      "entryNode": "start",
      "nodes": {
        "start": {"id": "start", "content": "Score >= 3?", "edges": {"true": "admit", "false": "home"}},
        "admit": {"id": "admit", "content": "Admit", "recommendations": ["Consider ICU assessment"]},
        "home": {"id": "home", "content": "Outpatient management"}
      }
    }
  ],
  "calculators": [
    {
      "name": "Wells DVT",
      "parameters": [
        {"id": "active-cancer", "name": "Active cancer", "type": "boolean"},
        {"id": "leg-swelling", "name": "Entire leg swollen", "type": "boolean"}
      ],
      "interpretations": {
        "ranges": [{"max": 0, "label": "Low"}, {"min": 1, "label": "Elevated"}]
      }
    }
  ]
}`

func TestParseJSON(t *testing.T) {
	t.Run("parses a valid document", func(t *testing.T) {
		doc, err := ParseJSON([]byte(validDocument))
		require.NoError(t, err)
		require.Len(t, doc.Algorithms, 1)
		require.Len(t, doc.Calculators, 1)

		assert.Equal(t, "curb-65-disposition", doc.Algorithms[0].ID)
		assert.Equal(t, "start", doc.Algorithms[0].EntryNode)
	})

	t.Run("assigns ids to definitions without one", func(t *testing.T) {
		doc, err := ParseJSON([]byte(validDocument))
		require.NoError(t, err)
		assert.NotEmpty(t, doc.Calculators[0].ID)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ParseJSON([]byte("{not json"))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects an empty document", func(t *testing.T) {
		_, err := ParseJSON([]byte("{}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no definitions")
	})

	t.Run("rejects a dangling edge target", func(t *testing.T) {
		payload := `{
  "algorithms": [{
    "id": "broken",
    "name": "Broken",
    "entryNode": "start",
    "nodes": {
      "start": {"id": "start", "content": "Q", "edges": {"true": "missing"}}
    }
  }]
}`
		_, err := ParseJSON([]byte(payload))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsDefinition(err))
	})
}

func TestExportJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(validDocument))
	require.NoError(t, err)

	cat, err := catalog.New(doc.Algorithms, doc.Calculators)
	require.NoError(t, err)

	payload, err := ExportJSON(cat)
	require.NoError(t, err)

	var exported Document
	require.NoError(t, json.Unmarshal(payload, &exported))
	assert.Len(t, exported.Algorithms, 1)
	assert.Len(t, exported.Calculators, 1)
	assert.Equal(t, "curb-65-disposition", exported.Algorithms[0].ID)

	// The exported document must round-trip through import unchanged.
	reparsed, err := ParseJSON(payload)
	require.NoError(t, err)
	assert.Equal(t, doc.Algorithms[0].Nodes["start"].Edges, reparsed.Algorithms[0].Nodes["start"].Edges)
}
