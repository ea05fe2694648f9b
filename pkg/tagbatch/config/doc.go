/*
Package config provides type-safe extraction from map[string]any documents
and loads the YAML/JSON files that describe environments and batch
definitions.

# Overview

config wraps a map[string]any and provides typed accessor methods that
handle missing keys and type mismatches by returning default values. The
env and tagbatch packages build environments and batch definitions on top
of it (env.FromConfig, tagbatch.DefinitionFromConfig).

# Basic Usage

	cfg := config.New(map[string]any{
	    "name":    "copy-outputs",
	    "filter":  true,
	    "outputs": []any{map[string]any{"name": "src", "type": "item[]"}},
	})

	name := cfg.String("name", "")        // "copy-outputs"
	filter := cfg.Bool("filter", false)    // true
	for _, o := range cfg.List("outputs") {
	    out, _ := config.AsConfig(o)
	    _ = out.String("type", "string")   // "item[]"
	}

# File Loading

	cfg, err := config.FromFile("batch.yaml")

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
