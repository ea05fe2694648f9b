package template

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// Renderer renders decomposed templates against a scope.
//
// Create with NewRenderer() and configure with Option functions.
// Renderer is safe for concurrent use after construction.
type Renderer struct {
	missingAction MissingAction
	itemSeparator string
}

// NewRenderer creates a Renderer with the given options.
//
// Default configuration:
//   - MissingAction: MissingEmpty
//   - ItemSeparator: ";"
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		missingAction: MissingEmpty,
		itemSeparator: ";",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Element is one element of a rendered list.
type Element struct {
	// Value is the rendered text.
	Value string
	// Source is the entry the element was produced from, set only when
	// the element is an untransformed item reference on its own.
	Source env.TagItem
}

// UndefinedReferenceError is returned when MissingError is set and one or
// more references cannot be resolved.
type UndefinedReferenceError struct {
	// Names holds the unresolved references as written.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedReferenceError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined reference: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined references: %s", strings.Join(e.Names, ", "))
}

// renderState collects unresolved references during one render call.
type renderState struct {
	r       *Renderer
	missing []string
}

func (s *renderState) err() error {
	if len(s.missing) > 0 {
		return &UndefinedReferenceError{Names: s.missing}
	}
	return nil
}

func (s *renderState) unresolved(p Part) string {
	switch s.r.missingAction {
	case MissingKeep:
		return p.String()
	case MissingError:
		s.missing = append(s.missing, p.String())
	}
	return ""
}

// Render concatenates the rendered parts.
//
// Example:
//
//	e := env.New().SetProperty("OutDir", "bin")
//	e.AddItem("Src", "a.cs")
//	e.AddItem("Src", "b.cs")
//	s, _ := NewRenderer().Render(MustDecompose("$(OutDir): @(Src, ' ')"), e)
//	// s: "bin: a.cs b.cs"
func (r *Renderer) Render(parts Parts, scope env.Scope) (string, error) {
	st := &renderState{r: r}
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(st.part(p, scope))
	}
	return sb.String(), st.err()
}

// RenderList renders a template into list elements. The template is split
// into segments at ";" in literal text. A segment containing an item
// reference with list semantics yields one element per entry of that
// item, with the entry in scope for every part of the segment. Other
// segments yield one element. Empty elements are dropped.
//
// Example:
//
//	// entries a.cs, b.cs of Src
//	els, _ := NewRenderer().RenderList(MustDecompose("obj/@(Src->'%(Filename)').o;extra"), e)
//	// els: "obj/a.o", "obj/b.o", "extra"
func (r *Renderer) RenderList(parts Parts, scope env.Scope) ([]Element, error) {
	st := &renderState{r: r}
	var out []Element

	for _, seg := range splitSegments(parts) {
		driver := -1
		for i, p := range seg {
			if ip, ok := p.(ItemPart); ok && ip.ListSemantics() {
				driver = i
				break
			}
		}

		if driver < 0 {
			var sb strings.Builder
			for _, p := range seg {
				sb.WriteString(st.part(p, scope))
			}
			if sb.Len() > 0 {
				out = append(out, Element{Value: sb.String()})
			}
			continue
		}

		ip := seg[driver].(ItemPart)
		alone := len(seg) == 1 && !ip.HasTransform
		for _, entry := range scope.Entries(ip.Item) {
			entryScope := env.WithEntry(scope, ip.Item, entry)

			var sb strings.Builder
			for i, p := range seg {
				if i == driver {
					sb.WriteString(st.entry(ip, entry, scope))
					continue
				}
				sb.WriteString(st.part(p, entryScope))
			}
			if sb.Len() == 0 {
				continue
			}
			el := Element{Value: sb.String()}
			if alone {
				el.Source = entry
			}
			out = append(out, el)
		}
	}

	return out, st.err()
}

func (s *renderState) part(p Part, scope env.Scope) string {
	switch v := p.(type) {
	case Literal:
		return v.Text
	case PropertyPart:
		if val, ok := scope.Property(v.Name); ok {
			return val
		}
		return s.unresolved(v)
	case TagPart:
		if val, ok := scope.Metadata(v.Item, v.Key); ok {
			return val
		}
		return s.unresolved(v)
	case ItemPart:
		sep := s.r.itemSeparator
		if v.HasSeparator {
			sep = v.Separator
		}
		entries := scope.Entries(v.Item)
		rendered := make([]string, 0, len(entries))
		for _, entry := range entries {
			rendered = append(rendered, s.entry(v, entry, scope))
		}
		return strings.Join(rendered, sep)
	}
	return ""
}

// entry renders one entry of an item reference: the transform with the
// entry in scope, or the entry spec.
func (s *renderState) entry(ip ItemPart, entry env.TagItem, scope env.Scope) string {
	if !ip.HasTransform {
		return entry.ItemSpec()
	}
	entryScope := env.WithEntry(scope, ip.Item, entry)
	var sb strings.Builder
	for _, p := range ip.TransformParts {
		sb.WriteString(s.part(p, entryScope))
	}
	return sb.String()
}

// splitSegments splits parts at every ";" in literal text. Escaped
// separators (%3B) do not split.
func splitSegments(parts Parts) []Parts {
	var segs []Parts
	var cur Parts
	for _, p := range parts {
		lit, ok := p.(Literal)
		if !ok {
			cur = append(cur, p)
			continue
		}
		pieces := strings.Split(lit.Raw, ";")
		for i, piece := range pieces {
			if i > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			if piece != "" {
				cur = append(cur, Literal{Text: Unescape(piece), Raw: piece})
			}
		}
	}
	return append(segs, cur)
}

// defaultRenderer is the package-level renderer with default settings.
var defaultRenderer = NewRenderer()

// Render renders parts using the default renderer.
//
// Uses MissingEmpty behavior, so it never fails.
func Render(parts Parts, scope env.Scope) string {
	// Default renderer never returns errors (MissingEmpty).
	s, _ := defaultRenderer.Render(parts, scope)
	return s
}

// RenderList renders parts into list elements using the default renderer.
func RenderList(parts Parts, scope env.Scope) []Element {
	// Default renderer never returns errors (MissingEmpty).
	els, _ := defaultRenderer.RenderList(parts, scope)
	return els
}
