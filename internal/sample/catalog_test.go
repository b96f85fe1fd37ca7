package sample

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	types := catalog.Types()
	assert.Equal(t, []string{"Bag", "Lam", "Press", "Pump", "Pumping_Station", "Slit", "Tank"}, types)

	for _, machineType := range types {
		class := catalog.Machines[machineType]
		assert.NotEmpty(t, class.DisplayName)
		for mfgKey := range class.Models {
			assert.Contains(t, catalog.Manufacturers, mfgKey)
		}
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
manufacturers:
  acme:
    name: ACME Corp
    uri: https://www.acme.example
machines:
  Press:
    display_name: Printing Press
    models:
      acme: [Model One]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Press"}, catalog.Types())
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseCatalogInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "not YAML",
			data: "machines: [",
		},
		{
			name: "no machines",
			data: "manufacturers:\n  acme: {name: ACME, uri: https://acme.example}\nmachines: {}",
		},
		{
			name: "unknown manufacturer reference",
			data: `
manufacturers:
  acme: {name: ACME, uri: https://acme.example}
machines:
  Press:
    display_name: Press
    models:
      ghost: [Model One]
`,
		},
		{
			name: "missing display name",
			data: `
manufacturers:
  acme: {name: ACME, uri: https://acme.example}
machines:
  Press:
    models:
      acme: [Model One]
`,
		},
		{
			name: "manufacturer without uri",
			data: `
manufacturers:
  acme: {name: ACME}
machines:
  Press:
    display_name: Press
    models:
      acme: [Model One]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestCatalogResolve(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	name, _, ok := catalog.Resolve("pumping_station")
	require.True(t, ok)
	assert.Equal(t, "Pumping_Station", name)

	_, _, ok = catalog.Resolve("conveyor")
	assert.False(t, ok)
}
