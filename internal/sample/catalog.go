package sample

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Manufacturer is a machine builder with its public URI
type Manufacturer struct {
	Name string `yaml:"name"`
	URI  string `yaml:"uri"`
}

// MachineClass describes one machine type: its human-readable name and the
// models each manufacturer offers for it
type MachineClass struct {
	DisplayName string              `yaml:"display_name"`
	Models      map[string][]string `yaml:"models"`
}

// Catalog maps machine types to manufacturers and models. Sample payloads
// are drawn from it.
type Catalog struct {
	Manufacturers map[string]Manufacturer `yaml:"manufacturers"`
	Machines      map[string]MachineClass `yaml:"machines"`
}

// DefaultCatalog parses the catalog bundled with the binary
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultCatalogYAML)
}

// LoadCatalog loads a catalog from a YAML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}

	return &catalog, nil
}

func (c *Catalog) validate() error {
	if len(c.Machines) == 0 {
		return fmt.Errorf("at least one machine type is required")
	}
	if len(c.Manufacturers) == 0 {
		return fmt.Errorf("at least one manufacturer is required")
	}

	for key, m := range c.Manufacturers {
		if m.Name == "" {
			return fmt.Errorf("manufacturer %q: name is required", key)
		}
		if m.URI == "" {
			return fmt.Errorf("manufacturer %q: uri is required", key)
		}
	}

	for machineType, class := range c.Machines {
		if class.DisplayName == "" {
			return fmt.Errorf("machine type %q: display_name is required", machineType)
		}
		if len(class.Models) == 0 {
			return fmt.Errorf("machine type %q: at least one manufacturer with models is required", machineType)
		}
		for mfgKey, models := range class.Models {
			if _, ok := c.Manufacturers[mfgKey]; !ok {
				return fmt.Errorf("machine type %q references unknown manufacturer %q", machineType, mfgKey)
			}
			if len(models) == 0 {
				return fmt.Errorf("machine type %q: manufacturer %q has no models", machineType, mfgKey)
			}
		}
	}

	return nil
}

// Types returns all machine type names in sorted order
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.Machines))
	for t := range c.Machines {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Resolve finds a machine type by name, case-insensitively, and returns its
// canonical name and class
func (c *Catalog) Resolve(machineType string) (string, MachineClass, bool) {
	if class, ok := c.Machines[machineType]; ok {
		return machineType, class, true
	}
	for name, class := range c.Machines {
		if strings.EqualFold(name, machineType) {
			return name, class, true
		}
	}
	return "", MachineClass{}, false
}
