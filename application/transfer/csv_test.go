package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscore-backend/domain/catalog"
)

func TestParseParametersCSV(t *testing.T) {
	t.Run("parses valid rows", func(t *testing.T) {
		payload := []byte("id,name,type,unit,tooltip,storable\n" +
			"weight,Weight,number,kg,Patient weight,true\n" +
			"smoker,Current smoker,boolean,,,no\n")

		parameters, err := ParseParametersCSV(payload)
		require.NoError(t, err)
		require.Len(t, parameters, 2)

		assert.Equal(t, "weight", parameters[0].ID)
		assert.Equal(t, catalog.ParameterNumber, parameters[0].Type)
		assert.Equal(t, "kg", parameters[0].Unit)
		assert.True(t, parameters[0].Storable)

		assert.Equal(t, catalog.ParameterBoolean, parameters[1].Type)
		assert.False(t, parameters[1].Storable)
	})

	t.Run("rejects wrong header", func(t *testing.T) {
		payload := []byte("name,id,type,unit,tooltip,storable\nweight,Weight,number,kg,,true\n")

		_, err := ParseParametersCSV(payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "header")
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		_, err := ParseParametersCSV([]byte(""))
		assert.Error(t, err)
	})

	t.Run("rejects header-only payload", func(t *testing.T) {
		_, err := ParseParametersCSV([]byte("id,name,type,unit,tooltip,storable\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no parameter rows")
	})

	t.Run("reports row number for bad type", func(t *testing.T) {
		payload := []byte("id,name,type,unit,tooltip,storable\n" +
			"weight,Weight,number,kg,,true\n" +
			"mood,Mood,feeling,,,false\n")

		_, err := ParseParametersCSV(payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 3")
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		payload := []byte("id,name,type,unit,tooltip,storable\n" +
			"weight,Weight,number,kg,,true\n" +
			"weight,Weight again,number,kg,,true\n")

		_, err := ParseParametersCSV(payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate parameter id")
	})

	t.Run("rejects select parameters", func(t *testing.T) {
		payload := []byte("id,name,type,unit,tooltip,storable\n" +
			"stage,Stage,select,,,false\n")

		_, err := ParseParametersCSV(payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "select")
	})

	t.Run("rejects missing id", func(t *testing.T) {
		payload := []byte("id,name,type,unit,tooltip,storable\n" +
			",Weight,number,kg,,true\n")

		_, err := ParseParametersCSV(payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id is required")
	})
}
