// Package sample generates synthetic machine identification payloads from a
// catalog of manufacturers and models.
package sample

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// WrapperKey is the field name the generated record is nested under
const WrapperKey = "MachineIdentificationType"

// ErrUnknownType is returned when a machine type is not in the catalog
var ErrUnknownType = errors.New("machine type not in catalog")

// Generator produces randomized machine identification payloads
type Generator struct {
	catalog *Catalog
	rand    *rand.Rand
	now     func() time.Time
}

// NewGenerator creates a generator seeded from the current time
func NewGenerator(catalog *Catalog) *Generator {
	return NewSeededGenerator(catalog, time.Now().UnixNano())
}

// NewSeededGenerator creates a generator with a fixed seed, for
// reproducible output
func NewSeededGenerator(catalog *Catalog, seed int64) *Generator {
	return &Generator{
		catalog: catalog,
		rand:    rand.New(rand.NewSource(seed)),
		now:     time.Now,
	}
}

var locations = []string{
	"Production Floor A",
	"Manufacturing Line 1",
	"Assembly Bay 3",
	"Processing Unit 2",
}

// Generate builds a complete payload for the given machine type, wrapped
// under the MachineIdentificationType key. The type is matched against the
// catalog case-insensitively.
func (g *Generator) Generate(machineType string) (map[string]interface{}, error) {
	name, class, ok := g.catalog.Resolve(machineType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, machineType)
	}

	mfgKey, model := g.pickModel(class)
	mfg := g.catalog.Manufacturers[mfgKey]

	constructionDate := g.constructionDate()
	operationDate := g.operationDate(constructionDate)
	softwareDate := g.operationDate(constructionDate)

	assetID := fmt.Sprintf("%s-%d", strings.ToUpper(name), 1000+g.rand.Intn(9000))
	serialNumber := fmt.Sprintf("%s%d", mfgPrefix(mfgKey), 100000+g.rand.Intn(900000))
	modelSlug := strings.ReplaceAll(model, " ", "-")
	productCode := fmt.Sprintf("PC-%s-%d", strings.ToUpper(modelSlug), 100+g.rand.Intn(900))

	patches := make([]string, g.rand.Intn(4))
	for i := range patches {
		patches[i] = fmt.Sprintf("PATCH-%d", 100+g.rand.Intn(900))
	}

	record := map[string]interface{}{
		"AssetId":                   assetID,
		"ComponentName":             fmt.Sprintf("%s %s", class.DisplayName, assetID),
		"DefaultInstanceBrowseName": fmt.Sprintf("/%s/%s", name, assetID),
		"DeviceClass":               fmt.Sprintf("Industrial %s", class.DisplayName),
		"DeviceManual":              fmt.Sprintf("%s/manuals/%s", mfg.URI, strings.ToLower(modelSlug)),
		"DeviceRevision":            fmt.Sprintf("Rev-%d.%d", 1+g.rand.Intn(5), g.rand.Intn(10)),
		"HardwareRevision":          fmt.Sprintf("HW-%d.%d", 1+g.rand.Intn(3), g.rand.Intn(10)),
		"InitialOperationDate":      formatDate(operationDate),
		"Location":                  locations[g.rand.Intn(len(locations))],
		"Manufacturer":              mfg.Name,
		"ManufacturerUri":           mfg.URI,
		"Model":                     model,
		"MonthOfConstruction":       int(constructionDate.Month()),
		"PatchIdentifiers":          patches,
		"ProductCode":               productCode,
		"ProductInstanceUri":        fmt.Sprintf("%s/products/%s", mfg.URI, strings.ToLower(modelSlug)),
		"RevisionCounter":           g.rand.Intn(6),
		"SerialNumber":              serialNumber,
		"SoftwareReleaseDate":       formatDate(softwareDate),
		"SoftwareRevision":          fmt.Sprintf("SW-%d.%d.%d", 1+g.rand.Intn(10), g.rand.Intn(10), g.rand.Intn(10)),
		"YearOfConstruction":        constructionDate.Year(),
	}

	return map[string]interface{}{WrapperKey: record}, nil
}

// pickModel selects a random manufacturer and one of its models. Keys are
// walked in sorted order so a fixed seed gives reproducible output.
func (g *Generator) pickModel(class MachineClass) (string, string) {
	keys := make([]string, 0, len(class.Models))
	for key := range class.Models {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	mfgKey := keys[g.rand.Intn(len(keys))]
	models := class.Models[mfgKey]
	return mfgKey, models[g.rand.Intn(len(models))]
}

// constructionDate picks a date within the last 20 years
func (g *Generator) constructionDate() time.Time {
	end := g.now()
	start := end.AddDate(-20, 0, 0)
	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, g.rand.Intn(days+1))
}

// operationDate picks a date after construction, within the last 10 years
func (g *Generator) operationDate(construction time.Time) time.Time {
	end := g.now()
	earliest := end.AddDate(-10, 0, 0)
	if construction.After(earliest) {
		earliest = construction
	}
	if !earliest.Before(end) {
		earliest = construction
	}
	days := int(end.Sub(earliest).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return earliest.AddDate(0, 0, g.rand.Intn(days+1))
}

func mfgPrefix(key string) string {
	prefix := strings.ToUpper(key)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return prefix
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
