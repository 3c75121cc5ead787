package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// resolveSourceMap builds the source tag -> root directory map.
// Priority: --source-map file, then repeated --map key=/path flags,
// then the sources section of the config file.
func resolveSourceMap(mapFile string, mapFlags []string) (map[string]string, error) {
	if mapFile != "" {
		return loadSourceMapFile(mapFile)
	}
	if len(mapFlags) > 0 {
		roots := make(map[string]string, len(mapFlags))
		for _, item := range mapFlags {
			k, v, ok := strings.Cut(item, "=")
			if !ok {
				return nil, fmt.Errorf("--map expects key=/path, got %q", item)
			}
			roots[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		return roots, nil
	}
	roots := viper.GetStringMapString("sources")
	if len(roots) == 0 {
		return nil, fmt.Errorf("no source map configured: pass --source-map or --map, or set sources in ~/.flankscope.yaml")
	}
	return roots, nil
}

// loadSourceMapFile reads a source map file, trying JSON first and
// falling back to YAML.
func loadSourceMapFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source map: %w", err)
	}
	roots := make(map[string]string)
	if err := json.Unmarshal(data, &roots); err == nil {
		return roots, nil
	}
	if err := yaml.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("source map %s is neither valid JSON nor YAML: %w", path, err)
	}
	return roots, nil
}

// filterSources keeps only rows whose source is in the keep set. An
// empty spec keeps everything the map knows about.
func filterSources(spec string, roots map[string]string) map[string]bool {
	keep := make(map[string]bool)
	if spec == "" {
		for k := range roots {
			keep[k] = true
		}
		return keep
	}
	for _, s := range strings.Split(spec, ",") {
		if s = strings.TrimSpace(s); s != "" {
			keep[s] = true
		}
	}
	return keep
}
