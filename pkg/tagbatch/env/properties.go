package env

import (
	"strings"
)

// PropertyCollection maps case-insensitive names to string values.
// The last Set for a name wins; the first spelling of the name is kept.
type PropertyCollection struct {
	order  []string
	names  map[string]string
	values map[string]string
}

func newPropertyCollection() *PropertyCollection {
	return &PropertyCollection{
		names:  make(map[string]string),
		values: make(map[string]string),
	}
}

// Set stores value under name.
func (p *PropertyCollection) Set(name, value string) {
	folded := FoldName(name)
	if _, exists := p.values[folded]; !exists {
		p.order = append(p.order, folded)
		p.names[folded] = name
	}
	p.values[folded] = value
}

// Get returns the raw, unexpanded value of a property.
func (p *PropertyCollection) Get(name string) (string, bool) {
	v, ok := p.values[FoldName(name)]
	return v, ok
}

// Has reports whether the property is set.
func (p *PropertyCollection) Has(name string) bool {
	_, ok := p.values[FoldName(name)]
	return ok
}

// Len returns the number of properties.
func (p *PropertyCollection) Len() int {
	return len(p.order)
}

// Names returns the property names in the order they were first set.
func (p *PropertyCollection) Names() []string {
	names := make([]string, 0, len(p.order))
	for _, folded := range p.order {
		names = append(names, p.names[folded])
	}
	return names
}

// Expanded returns the value of a property with every $(Name) reference
// inside it expanded.
func (p *PropertyCollection) Expanded(name string) (string, bool) {
	folded := FoldName(name)
	v, ok := p.values[folded]
	if !ok {
		return "", false
	}
	return p.expand(v, map[string]bool{folded: true}), true
}

// Expand replaces every $(Name) reference in s with the expanded property
// value. Unknown properties expand to the empty string. A reference that
// would recurse into itself is left as written.
//
// Example:
//
//	props.Set("Root", "/src")
//	props.Set("Out", "$(Root)/bin")
//	props.Expand("$(Out)/app") // "/src/bin/app"
func (p *PropertyCollection) Expand(s string) string {
	return p.expand(s, map[string]bool{})
}

func (p *PropertyCollection) expand(s string, visiting map[string]bool) string {
	if !strings.Contains(s, "$(") {
		return s
	}

	var sb strings.Builder
	for {
		start := strings.Index(s, "$(")
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start:], ')')
		if end < 0 {
			break
		}
		end += start

		name := strings.TrimSpace(s[start+2 : end])
		sb.WriteString(s[:start])

		folded := FoldName(name)
		switch {
		case !ValidName(name) || visiting[folded]:
			sb.WriteString(s[start : end+1])
		default:
			if v, ok := p.values[folded]; ok {
				visiting[folded] = true
				sb.WriteString(p.expand(v, visiting))
				delete(visiting, folded)
			}
		}
		s = s[end+1:]
	}
	sb.WriteString(s)
	return sb.String()
}
