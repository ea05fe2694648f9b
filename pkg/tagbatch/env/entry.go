package env

import (
	"path"
	"strings"
)

// Well-known metadata names.
const (
	MetaIdentity    = "Identity"
	MetaFilename    = "Filename"
	MetaExtension   = "Extension"
	MetaRelativeDir = "RelativeDir"
	MetaFullPath    = "FullPath"

	// MetaDirectory is the directory of FullPath without its root.
	MetaDirectory = "Directory"

	// MetaFileOrigin is set by AddFile to the directory the spec is relative to.
	MetaFileOrigin = "FileOrigin"
)

// TagItem is anything that has an item spec and metadata.
// Templates and the evaluator only ever see entries through this interface.
type TagItem interface {
	// ItemSpec returns the identifying spec string of the entry.
	ItemSpec() string

	// Metadata returns the value of the named metadata key.
	// Lookups are case-insensitive.
	Metadata(name string) (string, bool)
}

// Entry is one element of an Item. Entries are immutable once created.
type Entry struct {
	item     string
	spec     string
	keys     []string
	metadata map[string]string
}

// Compile-time interface check.
var _ TagItem = (*Entry)(nil)

// NewEntry creates a detached entry of the named item.
// Metadata is given as key/value pairs; a repeated key keeps the last value.
//
// Panics if spec is empty or the metadata has an odd number of elements.
func NewEntry(item, spec string, metadata ...string) *Entry {
	if spec == "" {
		panic("tagbatch: entry spec cannot be empty")
	}
	if len(metadata)%2 != 0 {
		panic("tagbatch: entry metadata must be key/value pairs")
	}

	e := &Entry{
		item:     item,
		spec:     spec,
		metadata: make(map[string]string, len(metadata)/2),
	}
	for i := 0; i < len(metadata); i += 2 {
		e.set(metadata[i], metadata[i+1])
	}
	return e
}

func (e *Entry) set(key, value string) {
	if !ValidName(key) {
		panic("tagbatch: invalid metadata name: " + key)
	}
	folded := FoldName(key)
	if _, exists := e.metadata[folded]; !exists {
		e.keys = append(e.keys, key)
	}
	e.metadata[folded] = value
}

// Name returns the name of the item this entry belongs to.
func (e *Entry) Name() string {
	return e.item
}

// ItemSpec returns the spec string of the entry.
func (e *Entry) ItemSpec() string {
	return e.spec
}

// String returns the spec string.
func (e *Entry) String() string {
	return e.spec
}

// Metadata returns the value of a metadata key. Explicit metadata is
// consulted first, then the well-known values computed from the spec.
func (e *Entry) Metadata(name string) (string, bool) {
	if v, ok := e.metadata[FoldName(name)]; ok {
		return v, true
	}
	return e.wellKnown(name)
}

// MetadataNames returns the explicit metadata keys in insertion order.
func (e *Entry) MetadataNames() []string {
	names := make([]string, len(e.keys))
	copy(names, e.keys)
	return names
}

// MetadataCount returns the number of explicit metadata keys.
func (e *Entry) MetadataCount() int {
	return len(e.keys)
}

func (e *Entry) wellKnown(name string) (string, bool) {
	spec := strings.ReplaceAll(e.spec, `\`, "/")
	base := path.Base(spec)

	switch FoldName(name) {
	case FoldName(MetaIdentity):
		return e.spec, true
	case FoldName(MetaExtension):
		return path.Ext(base), true
	case FoldName(MetaFilename):
		return strings.TrimSuffix(base, path.Ext(base)), true
	case FoldName(MetaRelativeDir):
		if i := strings.LastIndexAny(e.spec, `/\`); i >= 0 {
			return e.spec[:i+1], true
		}
		return "", true
	case FoldName(MetaFullPath):
		return e.fullPath(spec), true
	case FoldName(MetaDirectory):
		full := e.fullPath(spec)
		i := strings.LastIndex(full, "/")
		if i < 0 {
			return "", true
		}
		return strings.TrimPrefix(full[:i+1], rootOf(full)), true
	}
	return "", false
}

// fullPath joins a slash-form spec to the entry's FileOrigin, if any.
func (e *Entry) fullPath(spec string) string {
	origin, ok := e.metadata[FoldName(MetaFileOrigin)]
	if !ok || origin == "" || isRooted(spec) {
		return spec
	}
	return path.Join(strings.ReplaceAll(origin, `\`, "/"), spec)
}

// rootOf returns the "/" or "C:/" root of p, or "".
func rootOf(p string) string {
	switch {
	case strings.HasPrefix(p, "/"):
		return "/"
	case len(p) >= 3 && p[1] == ':' && p[2] == '/':
		return p[:3]
	case len(p) >= 2 && p[1] == ':':
		return p[:2]
	}
	return ""
}

// isRooted reports whether p is absolute in either slash or drive-letter form.
func isRooted(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) >= 2 && p[1] == ':'
}
