package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Keys flankscope owns in ~/.flankscope.yaml. sources.* holds the
// source-tag to archive-root map; the window keys are the default
// flanking window sizes in bp.
const (
	keyWindowUpstream   = "window.upstream"
	keyWindowDownstream = "window.downstream"
	keyWorkers          = "workers"
	sourcesPrefix       = "sources."
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage flankscope configuration",
		Long: `Show, get, or set configuration values stored in ~/.flankscope.yaml.

Known keys:
  sources.<tag>       archive root directory for a source tag
  window.upstream     default upstream window size in bp
  window.downstream   default downstream window size in bp
  workers             default worker pool size`,
		Example: `  flankscope config                                    # show all config
  flankscope config set sources.MGnify /data/MGnify/faa
  flankscope config set window.upstream 5000
  flankscope config get sources                        # show the whole source map`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigUnsetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigUnset(args[0])
		},
	}
}

// parseConfigValue validates and converts a value for one of the keys
// flankscope owns. Unknown keys are rejected so a typo like
// "window.upstrem" cannot silently shadow the real setting.
func parseConfigValue(key, value string) (any, error) {
	switch {
	case key == keyWindowUpstream || key == keyWindowDownstream:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", key, value)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s must be non-negative, got %d", key, n)
		}
		return n, nil
	case key == keyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", key, value)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s must be non-negative, got %d", key, n)
		}
		return n, nil
	case strings.HasPrefix(key, sourcesPrefix):
		tag := strings.TrimPrefix(key, sourcesPrefix)
		if tag == "" {
			return nil, fmt.Errorf("source mapping needs a tag: sources.<tag>")
		}
		if value == "" {
			return nil, fmt.Errorf("source mapping %s needs a root directory", key)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unknown configuration key %q", key)
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.flankscope.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	parsed, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, parsed)

	if strings.HasPrefix(key, sourcesPrefix) {
		if _, err := os.Stat(value); err != nil {
			fmt.Printf("Warning: %s does not exist yet\n", value)
		}
	}

	cfgFile, err := configFilePath()
	if err != nil {
		return err
	}
	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %v in %s\n", key, parsed, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	if key == "sources" {
		roots := viper.GetStringMapString("sources")
		if len(roots) == 0 {
			return fmt.Errorf("no sources configured")
		}
		tags := make([]string, 0, len(roots))
		for tag := range roots {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			fmt.Printf("%s\t%s\n", tag, roots[tag])
		}
		return nil
	}

	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}

func runConfigUnset(key string) error {
	if viper.Get(key) == nil {
		return fmt.Errorf("key %q is not set", key)
	}

	// viper has no delete; rewrite the settings tree without the key.
	settings := viper.AllSettings()
	removeKey(settings, strings.Split(key, "."))

	cfgFile, err := configFilePath()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(cfgFile, out, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Removed %s from %s\n", key, cfgFile)
	return nil
}

// removeKey deletes a dotted key path from a nested settings map,
// pruning map levels left empty.
func removeKey(settings map[string]any, path []string) {
	if len(path) == 1 {
		delete(settings, path[0])
		return
	}
	child, ok := settings[path[0]].(map[string]any)
	if !ok {
		return
	}
	removeKey(child, path[1:])
	if len(child) == 0 {
		delete(settings, path[0])
	}
}

func configFilePath() (string, error) {
	if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".flankscope.yaml"), nil
}
