package env

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/config"
)

// ErrInvalidEntry indicates an item entry in a config document is malformed.
var ErrInvalidEntry = errors.New("invalid item entry")

// FromConfig builds an environment from a config document of the form:
//
//	properties:
//	  Configuration: Debug
//	items:
//	  ProjectOutput:
//	    - assembly.dll
//	    - spec: res.txt
//	      origin: obj
//	      metadata:
//	        Origin: dirB
//
// Properties and items are added in sorted name order. An entry with an
// origin is added with AddFile.
func FromConfig(cfg config.Config) (*Environment, error) {
	e := New()

	props := cfg.StringMap("properties")
	for _, pair := range pairsOf(props) {
		e.SetProperty(pair[0], pair[1])
	}

	items, ok := cfg.Map("items")
	if !ok {
		return e, nil
	}

	var errs []error
	for _, name := range items.Keys() {
		if !ValidName(name) {
			errs = append(errs, fmt.Errorf("%w: item name %q", ErrInvalidEntry, name))
			continue
		}
		for i, raw := range items.List(name) {
			if err := addConfigEntry(e, name, raw); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", name, i, err))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return e, nil
}

func addConfigEntry(e *Environment, name string, raw any) error {
	if spec, ok := raw.(string); ok {
		if spec == "" {
			return fmt.Errorf("%w: empty spec", ErrInvalidEntry)
		}
		e.AddItem(name, spec)
		return nil
	}

	entry, ok := config.AsConfig(raw)
	if !ok {
		return fmt.Errorf("%w: expected a string or a mapping", ErrInvalidEntry)
	}
	spec := entry.String("spec", "")
	if spec == "" {
		return fmt.Errorf("%w: missing spec", ErrInvalidEntry)
	}

	metadata := entry.StringMap("metadata")
	for key := range metadata {
		if !ValidName(key) {
			return fmt.Errorf("%w: metadata name %q", ErrInvalidEntry, key)
		}
	}

	pairs := flattenSorted(metadata)
	if origin := entry.String("origin", ""); origin != "" {
		e.AddFile(name, spec, origin, pairs...)
		return nil
	}
	e.AddItem(name, spec, pairs...)
	return nil
}

func pairsOf(m map[string]string) [][2]string {
	flat := flattenSorted(m)
	out := make([][2]string, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		out = append(out, [2]string{flat[i], flat[i+1]})
	}
	return out
}
