package template

import (
	"strings"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// Part is one piece of a decomposed template.
// The concrete types are Literal, PropertyPart, ItemPart and TagPart.
type Part interface {
	// String returns the part as it would be written in a template.
	String() string

	isPart()
}

// Literal is plain text between references.
type Literal struct {
	// Text is the text with %XX escapes decoded.
	Text string
	// Raw is the text as written.
	Raw string
}

// PropertyPart is a $(Name) reference.
type PropertyPart struct {
	Name string
}

// ItemPart is an @(Item), @(Item->'transform') or @(Item->'transform','sep')
// reference. Both -> and => introduce a transform.
type ItemPart struct {
	Item string

	// Transform is the raw transform template; TransformParts is its decomposition.
	Transform      string
	TransformParts Parts
	HasTransform   bool
	Arrow          string

	Separator    string
	HasSeparator bool
}

// TagPart is a %(Key) or %(Item.Key) metadata reference.
type TagPart struct {
	// Item is empty for %(Key).
	Item string
	Key  string
}

func (Literal) isPart()      {}
func (PropertyPart) isPart() {}
func (ItemPart) isPart()     {}
func (TagPart) isPart()      {}

func (l Literal) String() string {
	return l.Raw
}

func (p PropertyPart) String() string {
	return "$(" + p.Name + ")"
}

func (p ItemPart) String() string {
	var sb strings.Builder
	sb.WriteString("@(")
	sb.WriteString(p.Item)
	if p.HasTransform {
		arrow := p.Arrow
		if arrow == "" {
			arrow = "->"
		}
		sb.WriteString(arrow)
		sb.WriteString("'")
		sb.WriteString(p.Transform)
		sb.WriteString("'")
	}
	if p.HasSeparator {
		sb.WriteString(",'")
		sb.WriteString(p.Separator)
		sb.WriteString("'")
	}
	sb.WriteString(")")
	return sb.String()
}

func (p TagPart) String() string {
	if p.Item == "" {
		return "%(" + p.Key + ")"
	}
	return "%(" + p.Item + "." + p.Key + ")"
}

// ListSemantics reports whether each entry of the item becomes its own
// element in a list output, which is the case when no separator is given
// or the separator is ";".
func (p ItemPart) ListSemantics() bool {
	return !p.HasSeparator || p.Separator == ";"
}

// Parts is a decomposed template in source order.
type Parts []Part

// String reassembles the template text.
func (ps Parts) String() string {
	var sb strings.Builder
	for _, p := range ps {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// IsLiteral reports whether the template has no references at all.
func (ps Parts) IsLiteral() bool {
	for _, p := range ps {
		if _, ok := p.(Literal); !ok {
			return false
		}
	}
	return true
}

// HasListItem reports whether any item reference has list semantics.
func (ps Parts) HasListItem() bool {
	for _, p := range ps {
		if ip, ok := p.(ItemPart); ok && ip.ListSemantics() {
			return true
		}
	}
	return false
}

// TagRef is a metadata reference found in a template.
type TagRef struct {
	Item string
	Key  string
	// Nested is true for references inside an item transform. Their Item
	// is the transformed item when the reference itself has no prefix.
	Nested bool
}

// Tags returns every metadata reference, including those nested inside
// transforms, in source order. Duplicates are removed case-insensitively.
func (ps Parts) Tags() []TagRef {
	var out []TagRef
	seen := make(map[[2]string]bool)
	add := func(ref TagRef) {
		k := [2]string{env.FoldName(ref.Item), env.FoldName(ref.Key)}
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, ref)
	}

	for _, p := range ps {
		switch v := p.(type) {
		case TagPart:
			add(TagRef{Item: v.Item, Key: v.Key})
		case ItemPart:
			for _, nested := range v.TransformParts {
				if tp, ok := nested.(TagPart); ok {
					item := tp.Item
					if item == "" {
						item = v.Item
					}
					add(TagRef{Item: item, Key: tp.Key, Nested: true})
				}
			}
		}
	}
	return out
}

// Items returns the names of referenced items in source order, without
// duplicates.
func (ps Parts) Items() []string {
	var out []string
	for _, p := range ps {
		if ip, ok := p.(ItemPart); ok {
			out = appendName(out, ip.Item)
		}
	}
	return out
}

// Properties returns the names of referenced properties in source order,
// without duplicates, including those inside transforms.
func (ps Parts) Properties() []string {
	var out []string
	for _, p := range ps {
		switch v := p.(type) {
		case PropertyPart:
			out = appendName(out, v.Name)
		case ItemPart:
			for _, name := range v.TransformParts.Properties() {
				out = appendName(out, name)
			}
		}
	}
	return out
}

func appendName(names []string, name string) []string {
	for _, n := range names {
		if env.SameName(n, name) {
			return names
		}
	}
	return append(names, name)
}
