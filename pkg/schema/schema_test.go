package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() map[string]interface{} {
	return map[string]interface{}{
		"MachineIdentificationType": map[string]interface{}{
			"AssetId":             "PUMP-1234",
			"Manufacturer":        "Grundfos Holding A/S",
			"Model":               "CR 32-4-2",
			"SerialNumber":        "GRU123456",
			"YearOfConstruction":  2019,
			"MonthOfConstruction": 6,
			"ManufacturerUri":     "https://www.grundfos.com",
		},
	}
}

func TestValidateStruct(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, validator.ValidateStruct(validDocument()))
}

func TestValidateBytes(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	doc := `{
	  "MachineIdentificationType": {
	    "AssetId": "TANK-9000",
	    "Manufacturer": "Caldwell Tanks Inc.",
	    "Model": "Aquastore 50000",
	    "SerialNumber": "CAL654321",
	    "YearOfConstruction": 2015
	  }
	}`
	assert.NoError(t, validator.ValidateBytes([]byte(doc)))
}

func TestValidateRejections(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(doc map[string]interface{})
	}{
		{
			name: "missing asset id",
			mutate: func(doc map[string]interface{}) {
				delete(doc["MachineIdentificationType"].(map[string]interface{}), "AssetId")
			},
		},
		{
			name: "empty serial number",
			mutate: func(doc map[string]interface{}) {
				doc["MachineIdentificationType"].(map[string]interface{})["SerialNumber"] = ""
			},
		},
		{
			name: "month out of range",
			mutate: func(doc map[string]interface{}) {
				doc["MachineIdentificationType"].(map[string]interface{})["MonthOfConstruction"] = 13
			},
		},
		{
			name: "year before 1900",
			mutate: func(doc map[string]interface{}) {
				doc["MachineIdentificationType"].(map[string]interface{})["YearOfConstruction"] = 1850
			},
		},
		{
			name: "wrapper is not an object",
			mutate: func(doc map[string]interface{}) {
				doc["MachineIdentificationType"] = "oops"
			},
		},
		{
			name: "unexpected top-level key",
			mutate: func(doc map[string]interface{}) {
				doc["Extra"] = true
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)
			assert.Error(t, validator.ValidateStruct(doc))
		})
	}
}

func TestMissingWrapperRejected(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	assert.Error(t, validator.ValidateBytes([]byte(`{"AssetId": "X-1"}`)))
}
