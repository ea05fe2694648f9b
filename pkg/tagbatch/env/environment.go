package env

import (
	"strings"
)

// Environment holds the properties and items a condition or batch is
// evaluated against.
//
// Environment is NOT thread-safe while it is being built. Once built it is
// only read, and it can then be shared by any number of evaluations.
type Environment struct {
	properties *PropertyCollection
	items      *ItemCollection
}

// Compile-time interface check.
var _ Scope = (*Environment)(nil)

// New creates an empty environment.
func New() *Environment {
	return &Environment{
		properties: newPropertyCollection(),
		items:      newItemCollection(),
	}
}

// Properties returns the property collection.
func (e *Environment) Properties() *PropertyCollection {
	return e.properties
}

// Items returns the item collection.
func (e *Environment) Items() *ItemCollection {
	return e.items
}

// SetProperty sets a property. Returns the environment for method chaining.
//
// Panics if name is empty.
func (e *Environment) SetProperty(name, value string) *Environment {
	if name == "" {
		panic("tagbatch: property name cannot be empty")
	}
	e.properties.Set(name, value)
	return e
}

// AddItem appends an entry to the named item and returns it.
// Metadata is given as key/value pairs.
//
// Panics if:
//   - name is not a valid item name
//   - spec is empty
//   - metadata has an odd number of elements
//   - a metadata key is not a valid name
//
// Example:
//
//	e.AddItem("ProjectOutput", "assembly.dll", "Origin", "dirA")
func (e *Environment) AddItem(name, spec string, metadata ...string) *Entry {
	if !ValidName(name) {
		panic("tagbatch: invalid item name: " + name)
	}
	entry := NewEntry(name, spec, metadata...)
	e.items.add(entry)
	return entry
}

// AddEntry is AddItem with metadata given as a map. Keys are added in
// sorted order so the resulting entry does not depend on map iteration.
func (e *Environment) AddEntry(name, spec string, metadata map[string]string) *Entry {
	return e.AddItem(name, spec, flattenSorted(metadata)...)
}

// AddFile adds a file entry whose spec is relative to origin. The origin
// is recorded as FileOrigin metadata, which FullPath is derived from.
//
// Example:
//
//	e.AddFile("Content", "img/logo.png", "/src/web")
//	// %(FullPath) == "/src/web/img/logo.png"
func (e *Environment) AddFile(name, path, origin string, metadata ...string) *Entry {
	pairs := make([]string, 0, len(metadata)+2)
	pairs = append(pairs, MetaFileOrigin, origin)
	pairs = append(pairs, metadata...)
	return e.AddItem(name, path, pairs...)
}

// LoadEnvironmentVariables imports KEY=VALUE pairs, typically os.Environ(),
// as properties. Explicitly set properties are not overwritten and names
// that cannot be referenced are skipped. Returns the number imported.
func (e *Environment) LoadEnvironmentVariables(environ []string) int {
	n := 0
	for _, kv := range environ {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		name := kv[:i]
		if !ValidName(name) || e.properties.Has(name) {
			continue
		}
		e.properties.Set(name, kv[i+1:])
		n++
	}
	return n
}

// ExpandProperties replaces $(Name) references in s with property values.
func (e *Environment) ExpandProperties(s string) string {
	return e.properties.Expand(s)
}

// Property returns the expanded value of a property.
func (e *Environment) Property(name string) (string, bool) {
	return e.properties.Expanded(name)
}

// Entries returns every entry of the named item, or nil if the item was
// never added.
func (e *Environment) Entries(item string) []TagItem {
	it, ok := e.items.Get(item)
	if !ok {
		return nil
	}
	out := make([]TagItem, len(it.entries))
	for i, entry := range it.entries {
		out[i] = entry
	}
	return out
}

// Metadata always reports false: outside a batch row there is no current entry.
func (e *Environment) Metadata(_, _ string) (string, bool) {
	return "", false
}
