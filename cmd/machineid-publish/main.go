package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/umati-tools/machineid-publisher/internal/publish"
	"github.com/umati-tools/machineid-publisher/internal/sample"
	"github.com/umati-tools/machineid-publisher/pkg/mqtt"
)

const defaultConfigPath = "publish_config.json"

func main() {
	dryRun := pflag.Bool("dry-run", false, "Resolve payloads and topics but do not publish to MQTT")
	generate := pflag.Bool("generate", false, "Generate payloads in-process instead of reading machines-dir")
	machinesDir := pflag.String("machines-dir", "machines", "Directory with pre-generated payload files")
	catalogPath := pflag.String("catalog", "", "Machine catalog YAML for --generate (default: bundled catalog)")
	logLevel := pflag.String("log-level", "info", "Log level (debug, info, warn, error)")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	configPath := defaultConfigPath
	if pflag.NArg() > 0 {
		configPath = pflag.Arg(0)
	}

	cfg, err := publish.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Loaded publish configuration",
		"config", configPath,
		"broker", cfg.BrokerOptions().Address(),
		"machines", len(cfg.Machines),
		"retry_attempts", cfg.GlobalSettings.RetryAttempts)

	source, err := buildSource(*generate, *machinesDir, *catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Payload source error: %v\n", err)
		os.Exit(1)
	}

	connector := mqtt.NewClient(cfg.BrokerOptions(), logger)
	publisher := publish.New(cfg, source, connector, logger)

	results, err := publisher.Run(context.Background(), *dryRun)
	if err != nil {
		logger.Error("Publish run aborted", "error", err)
		os.Exit(1)
	}

	summary := publish.Summarize(publisher.RunID(), results)
	for _, r := range results {
		if r.Status == publish.StatusSuccess {
			continue
		}
		logger.Error("Machine failed",
			"machine_type", r.MachineType,
			"topic", r.Topic,
			"attempts", r.AttemptsUsed,
			"error", r.Err)
	}

	logger.Info("Publish run complete",
		"run_id", summary.RunID,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"dry_run", *dryRun)

	if !summary.AllSucceeded() {
		os.Exit(1)
	}
}

func buildSource(generate bool, machinesDir, catalogPath string) (publish.PayloadSource, error) {
	if !generate {
		return publish.NewFileSource(machinesDir), nil
	}

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	return publish.NewGeneratorSource(sample.NewGenerator(catalog)), nil
}

func loadCatalog(path string) (*sample.Catalog, error) {
	if path == "" {
		return sample.DefaultCatalog()
	}
	return sample.LoadCatalog(path)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
