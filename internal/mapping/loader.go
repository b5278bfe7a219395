package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oncokg/oncograph/internal/model"
)

// Load reads a mapping configuration from disk. YAML is the primary format;
// .json files are accepted for compatibility with older mapping_config.json
// layouts. Section declaration order is preserved.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ConfigError{Path: path, Err: err}
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		cfg, err = parseJSON(data)
	default:
		cfg, err = parseYAML(data)
	}
	if err != nil {
		return nil, &model.ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// ParseYAML parses a YAML mapping document.
func ParseYAML(data []byte) (*Config, error) {
	cfg, err := parseYAML(data)
	if err != nil {
		return nil, &model.ConfigError{Err: err}
	}
	return cfg, nil
}

// ParseJSON parses a JSON mapping document.
func ParseJSON(data []byte) (*Config, error) {
	cfg, err := parseJSON(data)
	if err != nil {
		return nil, &model.ConfigError{Err: err}
	}
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping of section names")
	}

	cfg := &Config{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var section Section
		if err := root.Content[i+1].Decode(&section); err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}
		section.Name = name
		if err := section.compile(); err != nil {
			return nil, err
		}
		cfg.Sections = append(cfg.Sections, section)
	}
	if len(cfg.Sections) == 0 {
		return nil, fmt.Errorf("no sections defined")
	}
	return cfg, nil
}

// parseJSON walks the token stream so that section order survives; a plain
// map[string]Section unmarshal would shuffle it.
func parseJSON(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("top level must be an object of section names")
	}

	cfg := &Config{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name := tok.(string)

		var section Section
		if err := dec.Decode(&section); err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}
		section.Name = name
		if err := section.compile(); err != nil {
			return nil, err
		}
		cfg.Sections = append(cfg.Sections, section)
	}
	if len(cfg.Sections) == 0 {
		return nil, fmt.Errorf("no sections defined")
	}
	return cfg, nil
}
