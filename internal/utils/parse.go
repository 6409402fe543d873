package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// LoadConfigFile loads and parses a TOML or YAML file into the provided struct
func LoadConfigFile(configPath string, config any) error {
	if IsYAMLPath(configPath) {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			log.Warnf("YAML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
			return err
		}
		return nil
	}
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return err
	}
	return nil
}

// ParseWithRecovery decodes a config file into a generic map so that
// well-formed sections can still be picked out of a file whose typed decode failed.
func ParseWithRecovery(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	tempConfig := make(map[string]any)
	if IsYAMLPath(configPath) {
		err = yaml.Unmarshal(data, &tempConfig)
	} else {
		_, err = toml.Decode(string(data), &tempConfig)
	}
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", configPath, err)
		return nil, err
	}
	return tempConfig, nil
}

// ExtractSection extracts a specific section from parsed config data
func ExtractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

// ExtractInt safely extracts an integer value from a map.
// TOML decodes integers as int64, YAML as int.
func ExtractInt(data map[string]any, key string) (int, bool) {
	switch v := data[key].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// ExtractFloat safely extracts a float value, accepting integer literals too
func ExtractFloat(data map[string]any, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// ExtractBool safely extracts a bool value from a map
func ExtractBool(data map[string]any, key string) (bool, bool) {
	if val, ok := data[key].(bool); ok {
		return val, true
	}
	return false, false
}

// ExtractString safely extracts a string value from a map
func ExtractString(data map[string]any, key string) (string, bool) {
	if val, ok := data[key].(string); ok {
		return val, true
	}
	return "", false
}
