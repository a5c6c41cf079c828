package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"where-to-watch-service/internal/canonical"
	"where-to-watch-service/internal/logging"
)

// build-providers turns harvested raw provider packages into the canonical
// provider map artifact the server loads at runtime.
func main() {
	out := flag.String("out", "data/providers.json", "output path for the canonical provider map")
	flag.Parse()

	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "build-providers",
	})

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: build-providers [-out path] <raw-packages.json> [...]")
		os.Exit(2)
	}

	records, err := readRawPackages(inputs)
	if err != nil {
		logger.Error("failed to read raw packages", "error", err)
		os.Exit(1)
	}

	m := canonical.Build(records)
	if err := writeMap(*out, m); err != nil {
		logger.Error("failed to write provider map", "error", err)
		os.Exit(1)
	}

	logger.Info("provider map written",
		slog.String("path", *out),
		slog.Int("raw_packages", len(records)),
		slog.Int("canonical_entries", m.Len()),
	)
}

func readRawPackages(paths []string) ([]canonical.RawPackage, error) {
	var records []canonical.RawPackage
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var batch []canonical.RawPackage
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		records = append(records, batch...)
	}
	return records, nil
}

func writeMap(path string, m *canonical.Map) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
