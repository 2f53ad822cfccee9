package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// keyComments are written above each top-level key by Marshal.
var keyComments = map[string]string{
	"version":          "Config schema version.",
	"source":           "Counter source: auto, procfs (Linux) or psutil (any platform).",
	"fps":              "Samples per second, 1-144.",
	"history_size":     "Samples kept per graph.",
	"process_interval": "Minimum gap between process CPU recomputes. Never below 500ms.",
	"paused":           "Start with sampling paused.",
	"disk_path":        "Filesystem shown on the memory tab.",
	"procfs_root":      "Alternate /proc mount for the procfs source. Empty uses /proc.",
	"sysfs_root":       "Alternate /sys mount for sensors. Empty uses /sys.",
	"process_sort":     "Initial process order: cpu, mem, pid or name.",
	"scales":           "Starting Y-scale per graph. 0 uses the built-in default. net_rx and net_tx are bytes per second.",
	"thresholds":       "Warning and critical levels for coloring. cpu and memory in percent, thermal in Celsius.",
}

// Marshal renders cfg as YAML with a comment above each top-level key.
// Durations are written as strings like "500ms".
func Marshal(cfg *Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	if v := findMapValue(&doc, "process_interval"); v != nil {
		v.Kind = yaml.ScalarNode
		v.Tag = "!!str"
		v.Value = cfg.ProcessInterval.String()
	}

	for i := 0; i < len(doc.Content)-1; i += 2 {
		key := doc.Content[i]
		if c, ok := keyComments[key.Value]; ok {
			key.HeadComment = c
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault writes a commented default config to path, creating parent
// directories as needed. It refuses to replace an existing file unless
// overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	data, err := Marshal(DefaultConfig())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
