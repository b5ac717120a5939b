package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config represents the user's keybinding configuration.
// Each section maps an action to a comma separated list of keys, e.g.
// "history_save": "ctrl+s,ctrl+w".
type Config struct {
	Version     string            `json:"version,omitempty"`
	Global      map[string]string `json:"global,omitempty"`
	Selection   map[string]string `json:"selection,omitempty"`
	Filter      map[string]string `json:"filter,omitempty"`
	Messages    map[string]string `json:"messages,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	HeadersNone map[string]string `json:"headers_none,omitempty"`
	HeadersAuth map[string]string `json:"headers_auth,omitempty"`
	HeadersMeta map[string]string `json:"headers_meta,omitempty"`
	Insert      map[string]string `json:"insert,omitempty"`
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:      c.Global,
		ContextSelection:   c.Selection,
		ContextFilter:      c.Filter,
		ContextMessages:    c.Messages,
		ContextHeaders:     c.Headers,
		ContextHeadersNone: c.HeadersNone,
		ContextHeadersAuth: c.HeadersAuth,
		ContextHeadersMeta: c.HeadersMeta,
		ContextInsert:      c.Insert,
	}
}

func (c *Config) section(context Context) map[string]string {
	var section *map[string]string
	switch context {
	case ContextGlobal:
		section = &c.Global
	case ContextSelection:
		section = &c.Selection
	case ContextFilter:
		section = &c.Filter
	case ContextMessages:
		section = &c.Messages
	case ContextHeaders:
		section = &c.Headers
	case ContextHeadersNone:
		section = &c.HeadersNone
	case ContextHeadersAuth:
		section = &c.HeadersAuth
	case ContextHeadersMeta:
		section = &c.HeadersMeta
	case ContextInsert:
		section = &c.Insert
	default:
		return nil
	}
	if *section == nil {
		*section = make(map[string]string)
	}
	return *section
}

// LoadConfig loads keybinding configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SplitKeys parses a comma separated key list
func SplitKeys(keys string) []string {
	var out []string
	for _, key := range strings.Split(keys, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			out = append(out, key)
		}
	}
	return out
}

// ApplyConfig applies user configuration to a registry
// User bindings replace every default key of the same action
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		for actionStr, keys := range bindings {
			if err := ValidateAction(actionStr); err != nil {
				return fmt.Errorf("%s: %w", context, err)
			}
			action := Action(actionStr)
			parsed := SplitKeys(keys)
			if len(parsed) == 0 {
				return fmt.Errorf("%s.%s: no keys given", context, actionStr)
			}
			for _, key := range parsed {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("%s.%s: %w", context, actionStr, err)
				}
			}

			registry.Unbind(context, action)
			registry.RegisterMultiple(context, parsed, action)
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()
	if configPath == "" {
		return registry, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return registry, nil
		}
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}

	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keybinds config: %w", err)
	}

	return registry, nil
}

// CheckFile validates the overrides in path, then the registry they produce
// once applied over the defaults
func CheckFile(path string) (*ValidationResult, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	result := NewValidator().ValidateConfig(config)
	if result.HasErrors() {
		return result, nil
	}

	registry := NewDefaultRegistry()
	err = ApplyConfig(registry, config)
	if err == nil {
		err = registry.Validate()
	}
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Type:    "invalid",
			Message: err.Error(),
		})
	}
	return result, nil
}

// Export converts a registry into a config, one entry per context and action
func Export(registry *Registry) *Config {
	config := &Config{Version: "1.0"}

	for _, context := range registry.Contexts() {
		section := config.section(context)
		if section == nil {
			continue
		}

		grouped := make(map[Action][]string)
		for _, b := range registry.ListBindings(context) {
			grouped[b.Action] = append(grouped[b.Action], b.Key)
		}
		for action, keys := range grouped {
			sort.Strings(keys)
			section[string(action)] = strings.Join(keys, ",")
		}
	}

	return config
}

// ExportDefaults exports the default keybindings as a config
func ExportDefaults() *Config {
	return Export(NewDefaultRegistry())
}
