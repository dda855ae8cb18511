package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"gopkg.in/yaml.v3"
)

// yamlConfig is a flat key/value configuration, loaded from YAML. Nested
// mappings are flattened into dotted keys, sequences into comma-separated
// lists.
type yamlConfig struct {
	values map[string]string
}

var _ schuko.Configuration = &yamlConfig{}

func newConfig() *yamlConfig {
	c := &yamlConfig{values: make(map[string]string)}
	c.InitDefaults()
	return c
}

// InitDefaults sets the adapter for tracing and the root trace level.
func (c *yamlConfig) InitDefaults() {
	c.values["tracing.adapter"] = "go"
	c.values["tracing.root"] = "Error"
}

func (c *yamlConfig) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	defer f.Close()
	return c.load(f)
}

func (c *yamlConfig) load(r io.Reader) error {
	var doc map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing configuration: %w", err)
	}
	c.flatten("", doc)
	return nil
}

func (c *yamlConfig) flatten(prefix string, m map[string]interface{}) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]interface{}:
			c.flatten(key, v)
		case []interface{}:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}
			c.values[key] = strings.Join(items, ",")
		case nil:
			c.values[key] = ""
		default:
			c.values[key] = fmt.Sprint(v)
		}
	}
}

func (c *yamlConfig) set(key, value string) {
	c.values[key] = value
}

func (c *yamlConfig) IsSet(key string) bool {
	_, ok := c.values[key]
	return ok
}

func (c *yamlConfig) GetString(key string) string {
	return c.values[key]
}

func (c *yamlConfig) GetInt(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.values[key]))
	if err != nil {
		return 0
	}
	return n
}

func (c *yamlConfig) GetBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(c.values[key]))
	return b
}

func (c *yamlConfig) IsInteractive() bool {
	return false
}
