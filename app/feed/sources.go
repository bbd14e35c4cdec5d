package feed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSources reads every *.yml file in dir and returns the source
// definitions in filename order, which fixes the feed processing order of a
// pass.
func LoadSources(dir string) ([]SourceConfig, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}

	sources := make([]SourceConfig, 0, len(files))
	for _, file := range files {
		source, err := parseSource(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Feed source loaded", "name", source.Name, "url", source.URL, "enabled", source.Enabled)
		sources = append(sources, *source)
	}

	return sources, nil
}

func parseSource(file string) (*SourceConfig, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source SourceConfig
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Name == "" {
		source.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	if err := validateSource(&source); err != nil {
		return nil, err
	}

	return &source, nil
}

func validateSource(source *SourceConfig) error {
	if source.URL == "" {
		return fmt.Errorf("feed URL is required")
	}
	if source.MaxArticles < 0 {
		return fmt.Errorf("max_articles must be non-negative")
	}
	return nil
}
