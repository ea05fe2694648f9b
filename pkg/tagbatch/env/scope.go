package env

import (
	"sort"
)

// Scope resolves the references of templates and expressions.
type Scope interface {
	// Property returns the expanded value of a property.
	Property(name string) (string, bool)

	// Entries returns the entries of an item visible in this scope.
	Entries(item string) []TagItem

	// Metadata resolves %(Key) when item is empty, or %(Item.Key).
	Metadata(item, key string) (string, bool)
}

// entryScope narrows metadata lookups to one entry.
type entryScope struct {
	parent Scope
	item   string
	entry  TagItem
}

// WithEntry returns a scope in which %(Key), and %(Item.Key) for the
// entry's own item, resolve against entry. Other lookups go to parent.
func WithEntry(parent Scope, item string, entry TagItem) Scope {
	return &entryScope{parent: parent, item: item, entry: entry}
}

func (s *entryScope) Property(name string) (string, bool) {
	return s.parent.Property(name)
}

func (s *entryScope) Entries(item string) []TagItem {
	return s.parent.Entries(item)
}

func (s *entryScope) Metadata(item, key string) (string, bool) {
	if item == "" || SameName(item, s.item) {
		return s.entry.Metadata(key)
	}
	return s.parent.Metadata(item, key)
}

func flattenSorted(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
