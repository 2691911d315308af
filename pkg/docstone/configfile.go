package docstone

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// configFileNames are the discovery candidates, in precedence order.
var configFileNames = []string{"docstone.toml", "docstone.yaml", "docstone.yml", "docstone.json"}

// maxDiscoveryDepth bounds the upward directory walk of ConfigDiscover.
const maxDiscoveryDepth = 10

// ConfigFromFile loads an ExtractionConfig from a TOML, YAML, or JSON file,
// chosen by extension.
func ConfigFromFile(path string) (*ExtractionConfig, error) {
	if path == "" {
		return nil, newValidationError("config file path cannot be empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newIOError("failed to read config file "+path, err)
	}

	var cfg ExtractionConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		// Decode through an intermediate document so the snake_case keys in
		// the file bind to the same json tags the wire format uses.
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, newSerializationError("failed to parse TOML config "+path, err)
		}
		bridged, err := json.Marshal(doc)
		if err != nil {
			return nil, newSerializationError("failed to convert TOML config "+path, err)
		}
		if err := json.Unmarshal(bridged, &cfg); err != nil {
			return nil, newSerializationError("failed to decode config "+path, err)
		}
	case ".yaml", ".yml":
		// Same intermediate-document bridge as the TOML path.
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, newSerializationError("failed to parse YAML config "+path, err)
		}
		bridged, err := json.Marshal(doc)
		if err != nil {
			return nil, newSerializationError("failed to convert YAML config "+path, err)
		}
		if err := json.Unmarshal(bridged, &cfg); err != nil {
			return nil, newSerializationError("failed to decode config "+path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, newSerializationError("failed to parse JSON config "+path, err)
		}
	default:
		return nil, newValidationError("unsupported config file extension: "+filepath.Ext(path), nil)
	}
	return &cfg, nil
}

// ConfigDiscover walks upward from dir looking for a docstone config file
// and loads the first one found. An empty dir starts at the working
// directory. Returns nil without error when no config file exists.
func ConfigDiscover(dir string) (*ExtractionConfig, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, newIOError("failed to determine working directory", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, newIOError("failed to resolve config search root", err)
	}

	for depth := 0; depth < maxDiscoveryDepth; depth++ {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return ConfigFromFile(candidate)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, nil
}
