package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/umati-tools/machineid-publisher/internal/sample"
	"github.com/umati-tools/machineid-publisher/pkg/schema"
)

func main() {
	outDir := pflag.String("out", "machines", "Output directory when generating all machine types")
	catalogPath := pflag.String("catalog", "", "Machine catalog YAML (default: bundled catalog)")
	seed := pflag.Int64("seed", 0, "Random seed for reproducible output (0 = time-based)")
	pflag.Parse()

	catalog, err := loadCatalog(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catalog error: %v\n", err)
		os.Exit(1)
	}

	generator := sample.NewGenerator(catalog)
	if *seed != 0 {
		generator = sample.NewSeededGenerator(catalog, *seed)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Schema error: %v\n", err)
		os.Exit(1)
	}

	// With a machine type argument, print payloads to stdout; without one,
	// write a payload file per catalog type into the output directory.
	if pflag.NArg() > 0 {
		count := 1
		if pflag.NArg() > 1 {
			count, err = strconv.Atoi(pflag.Arg(1))
			if err != nil || count < 1 {
				fmt.Fprintf(os.Stderr, "Error: count must be a positive integer, got %q\n", pflag.Arg(1))
				os.Exit(1)
			}
		}
		if err := printPayloads(generator, validator, pflag.Arg(0), count); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := writeAll(generator, validator, catalog, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printPayloads(generator *sample.Generator, validator *schema.Validator, machineType string, count int) error {
	for i := 0; i < count; i++ {
		payload, err := generator.Generate(machineType)
		if err != nil {
			return err
		}
		if err := validator.ValidateStruct(payload); err != nil {
			return fmt.Errorf("generated payload is not schema-valid: %w", err)
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}

		if count > 1 {
			fmt.Printf("=== %s payload %d of %d ===\n", machineType, i+1, count)
		}
		fmt.Println(string(data))
	}
	return nil
}

func writeAll(generator *sample.Generator, validator *schema.Validator, catalog *sample.Catalog, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, machineType := range catalog.Types() {
		payload, err := generator.Generate(machineType)
		if err != nil {
			return err
		}
		if err := validator.ValidateStruct(payload); err != nil {
			return fmt.Errorf("generated %s payload is not schema-valid: %w", machineType, err)
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}

		path := filepath.Join(outDir, strings.ToLower(machineType)+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

func loadCatalog(path string) (*sample.Catalog, error) {
	if path == "" {
		return sample.DefaultCatalog()
	}
	return sample.LoadCatalog(path)
}
