package config

import (
	"fmt"
	"sort"
)

// Config wraps a map[string]any for type-safe value extraction.
// All accessor methods return default values if the key is missing
// or the value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Map returns the nested mapping for key as a Config.
// The second result is false if the key is missing or not a mapping.
func (c Config) Map(key string) (Config, bool) {
	v, ok := c.data[key]
	if !ok {
		return Config{}, false
	}
	m, ok := asMap(v)
	if !ok {
		return Config{}, false
	}
	return New(m), true
}

// List returns the sequence for key, or nil if missing or not a sequence.
func (c Config) List(key string) []any {
	if l, ok := c.data[key].([]any); ok {
		return l
	}
	return nil
}

// StringMap returns the nested mapping for key with every scalar value
// formatted as a string. Nested mappings and sequences are skipped.
//
// Example:
//
//	cfg := config.New(map[string]any{"meta": map[string]any{"Version": 3}})
//	cfg.StringMap("meta") // map[Version:3]
func (c Config) StringMap(key string) map[string]string {
	sub, ok := c.Map(key)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(sub.data))
	for k, v := range sub.data {
		switch v.(type) {
		case map[string]any, []any:
			continue
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

// Keys returns the top-level keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsConfig converts an element of a List result into a Config.
// The second result is false if v is not a mapping.
func AsConfig(v any) (Config, bool) {
	m, ok := asMap(v)
	if !ok {
		return Config{}, false
	}
	return New(m), true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
