package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/flowgen/internal/log"
)

// Preferences are the settings the TUI remembers between runs.
type Preferences struct {
	Complexity string
	View       string
}

// SavePreferences writes generation.complexity and ui.view into the config
// file. Comments and formatting elsewhere are preserved by editing the
// yaml.Node tree. Empty values are left untouched.
func SavePreferences(configPath string, prefs Preferences) error {
	return updateFile(configPath, func(root *yaml.Node) {
		if prefs.Complexity != "" {
			setScalar(root, []string{"generation", "complexity"}, prefs.Complexity)
		}
		if prefs.View != "" {
			setScalar(root, []string{"ui", "view"}, prefs.View)
		}
	})
}

func updateFile(configPath string, edit func(root *yaml.Node)) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	edit(doc.Content[0])

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".flowgen.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debug(log.CatConfig, "Saved config", "path", configPath)
	return nil
}

// setScalar sets path to value under the mapping m, creating intermediate
// mappings as needed.
func setScalar(m *yaml.Node, path []string, value string) {
	for i, key := range path {
		last := i == len(path)-1
		child := lookup(m, key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode}
			if last {
				child = &yaml.Node{Kind: yaml.ScalarNode}
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, child)
		}
		if last {
			child.Kind = yaml.ScalarNode
			child.Tag = ""
			child.Style = 0
			child.Content = nil
			child.Value = value
			return
		}
		if child.Kind != yaml.MappingNode {
			child.Kind = yaml.MappingNode
			child.Tag = ""
			child.Value = ""
			child.Content = nil
		}
		m = child
	}
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
