package sample

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umati-tools/machineid-publisher/pkg/schema"
)

func TestGenerate(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	gen := NewSeededGenerator(catalog, 1)

	payload, err := gen.Generate("Pump")
	require.NoError(t, err)

	record, ok := payload[WrapperKey].(map[string]interface{})
	require.True(t, ok, "payload must be wrapped under %s", WrapperKey)

	for _, field := range []string{
		"AssetId", "ComponentName", "DefaultInstanceBrowseName", "DeviceClass",
		"DeviceManual", "HardwareRevision", "InitialOperationDate", "Location",
		"Manufacturer", "ManufacturerUri", "Model", "MonthOfConstruction",
		"ProductCode", "ProductInstanceUri", "SerialNumber", "SoftwareRevision",
		"YearOfConstruction",
	} {
		assert.Contains(t, record, field)
	}

	assert.True(t, strings.HasPrefix(record["AssetId"].(string), "PUMP-"))

	year := record["YearOfConstruction"].(int)
	now := time.Now().Year()
	assert.GreaterOrEqual(t, year, now-20)
	assert.LessOrEqual(t, year, now)

	month := record["MonthOfConstruction"].(int)
	assert.GreaterOrEqual(t, month, 1)
	assert.LessOrEqual(t, month, 12)

	opDate, err := time.Parse(time.RFC3339, record["InitialOperationDate"].(string))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, opDate.Year(), year, "operation must not predate construction")
	assert.False(t, opDate.After(time.Now().AddDate(0, 0, 1)))
}

func TestGenerateCaseInsensitiveType(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	gen := NewSeededGenerator(catalog, 2)

	for _, name := range []string{"pump", "PUMP", "Pump", "pumping_station"} {
		_, err := gen.Generate(name)
		assert.NoError(t, err, "type %q should resolve", name)
	}
}

func TestGenerateUnknownType(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	_, err = NewSeededGenerator(catalog, 3).Generate("conveyor")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestGenerateReproducible(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	genA := NewSeededGenerator(catalog, 7)
	genA.now = func() time.Time { return fixed }
	first, err := genA.Generate("Press")
	require.NoError(t, err)

	genB := NewSeededGenerator(catalog, 7)
	genB.now = func() time.Time { return fixed }
	second, err := genB.Generate("Press")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGeneratedPayloadIsSchemaValid(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	validator, err := schema.NewValidator()
	require.NoError(t, err)

	gen := NewSeededGenerator(catalog, 5)

	for _, machineType := range catalog.Types() {
		payload, err := gen.Generate(machineType)
		require.NoError(t, err)
		assert.NoError(t, validator.ValidateStruct(payload), "payload for %s", machineType)
	}
}

func TestGenerateModelMatchesManufacturer(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	gen := NewSeededGenerator(catalog, 11)

	for i := 0; i < 20; i++ {
		payload, err := gen.Generate("Press")
		require.NoError(t, err)
		record := payload[WrapperKey].(map[string]interface{})

		model := record["Model"].(string)
		manufacturer := record["Manufacturer"].(string)

		class := catalog.Machines["Press"]
		found := false
		for mfgKey, models := range class.Models {
			for _, m := range models {
				if m == model {
					found = true
					assert.Equal(t, catalog.Manufacturers[mfgKey].Name, manufacturer)
				}
			}
		}
		assert.True(t, found, "model %q is not in the catalog", model)
	}
}
