// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() map[string]any {
	return map[string]any{
		"quiet":      false,
		"chunk-size": "128KiB",
		"interval":   "500ms",
		"width":      0,
	}
}

// applyConfigDefaults loads the config file, if any, and applies its values
// to flags the user did not set explicitly. CLI flags always win.
func applyConfigDefaults(cmd *cobra.Command, ro *rootOpts) error {
	path := ro.Config
	if path == "" {
		home, _ := os.UserHomeDir()
		for _, candidate := range []string{"vcopy.json", "vcopy.yaml", "vcopy.yml"} {
			p := filepath.Join(home, ".config", candidate)
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cfg map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return fmt.Errorf("invalid YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return fmt.Errorf("invalid JSON config file: %w", err)
		}
	}

	set := func(flagName string, apply func(string) error) error {
		if cmd.Flags().Changed(flagName) {
			return nil
		}
		v, ok := cfg[flagName]
		if !ok || v == nil {
			return nil
		}
		if err := apply(fmt.Sprint(v)); err != nil {
			return fmt.Errorf("config %s: %w", flagName, err)
		}
		return nil
	}

	if err := set("quiet", func(v string) error {
		ro.Quiet = v == "true"
		return nil
	}); err != nil {
		return err
	}
	if err := set("chunk-size", func(v string) error {
		ro.ChunkSize = v
		return nil
	}); err != nil {
		return err
	}
	if err := set("interval", func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		ro.Interval = d
		return nil
	}); err != nil {
		return err
	}
	return set("width", func(v string) error {
		var w int
		if _, err := fmt.Sscan(v, &w); err != nil {
			return err
		}
		ro.Width = w
		return nil
	})
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func configPath(ext string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vcopy"+ext), nil
}

func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		useYAML bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Creates a default configuration file at ~/.config/vcopy.json (or .yaml)

The configuration file sets default values for all command flags.
CLI flags always override config file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := ".json"
			if useYAML {
				ext = ".yaml"
			}
			path, err := configPath(ext)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("could not create config directory: %w", err)
			}

			cfg := DefaultConfig()
			var data []byte
			if useYAML {
				data, err = yaml.Marshal(cfg)
			} else {
				data, err = json.MarshalIndent(cfg, "", "  ")
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}

			fmt.Printf("✓ Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")
	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Create YAML config instead of JSON")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(".json")
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				fmt.Println("No config file found.")
				fmt.Printf("Run 'vcopy config init' to create one at:\n  %s\n", path)
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			fmt.Printf("Config file: %s\n\n", path)
			fmt.Println(string(data))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(".json")
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
