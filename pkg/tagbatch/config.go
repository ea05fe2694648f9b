package tagbatch

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/config"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// DefinitionFromConfig builds a definition from a config document of the form:
//
//	name: copy-outputs
//	outputs:
//	  - name: src
//	    type: item[]
//	    value: "@(ProjectOutput)"
//	  - name: if
//	    type: condition
//	    value: "'%(Origin)' == 'dirA'"
//
// Outputs keep document order. The type defaults to "string". Every
// malformed output is reported; the errors are joined and each wraps
// ErrInvalidDefinition.
func DefinitionFromConfig(cfg config.Config) (*Definition, error) {
	outputs := cfg.List("outputs")
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, ErrNoOutputs)
	}

	def := NewDefinition(cfg.String("name", ""))

	var errs []error
	for i, raw := range outputs {
		out, ok := config.AsConfig(raw)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: outputs[%d]: expected a mapping", ErrInvalidDefinition, i))
			continue
		}

		name := out.String("name", "")
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: outputs[%d]: missing name", ErrInvalidDefinition, i))
			continue
		}
		if _, dup := def.index[env.FoldName(name)]; dup {
			errs = append(errs, fmt.Errorf("%w: outputs[%d]: duplicate name %q", ErrInvalidDefinition, i, name))
			continue
		}

		typ, err := ParseOutputType(out.String("type", String.String()))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: outputs[%d]: %w", ErrInvalidDefinition, i, err))
			continue
		}

		def.AddOutput(name, out.String("value", ""), typ)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return def, nil
}
