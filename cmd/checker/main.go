// Command checker runs quality checks against a line-list file and
// prints a summary. It exits non-zero when any error-severity issue is
// found, so it can gate data imports in scripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"epiqc/internal/dataset"
	"epiqc/internal/infrastructure"
	"epiqc/internal/quality"
	"epiqc/pkg/contracts/domain"
)

func main() {
	var (
		filePath   = flag.String("file", "", "line-list file to check (.csv, .xlsx)")
		configPath = flag.String("config", "", "YAML quality configuration (optional)")
		verbose    = flag.Bool("verbose", false, "print every issue, not just the summary")
	)
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: checker -file <dataset> [-config <rules.yaml>] [-verbose]")
		os.Exit(2)
	}

	if err := run(*filePath, *configPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "checker: %v\n", err)
		os.Exit(1)
	}
}

func run(filePath, configPath string, verbose bool) error {
	cfg, err := loadQualityConfig(configPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filePath)
	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	loader := dataset.NewLoader(dir, infrastructure.GetLogger())
	ds, err := loader.Load(name)
	if err != nil {
		return fmt.Errorf("load %s: %w", filePath, err)
	}

	engine := quality.NewEngine(infrastructure.GetLogger())
	issues := engine.RunChecks(context.Background(), ds.Records, ds.Columns, cfg)
	summary := quality.Summarize(issues)

	fmt.Printf("%s: %d records, %d columns\n", ds.Name, len(ds.Records), len(ds.Columns))
	fmt.Printf("issues: %d (%d errors, %d warnings)\n", summary.Total, summary.Errors, summary.Warnings)
	for _, category := range domain.AllIssueCategories {
		count := summary.ByCategory[category]
		if count.Total == 0 {
			continue
		}
		fmt.Printf("  %-14s %d\n", category, count.Total)
	}

	if verbose {
		for _, issue := range issues {
			fmt.Printf("[%s] %s: %s (records: %s)\n",
				issue.Severity, issue.CheckType, issue.Message, strings.Join(issue.RecordIDs, ", "))
		}
	}

	if summary.Errors > 0 {
		os.Exit(1)
	}
	return nil
}

// loadQualityConfig reads a YAML rule file, or falls back to the default
// configuration when no path is given.
func loadQualityConfig(path string) (domain.DataQualityConfig, error) {
	cfg := domain.DefaultDataQualityConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
