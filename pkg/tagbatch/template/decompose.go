package template

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Reference patterns. Each alternative is wrapped so the combined
// pattern can tell them apart by submatch.
const (
	namePattern     = `[A-Za-z_][A-Za-z0-9_-]*`
	itemPattern     = `@\(\s*(` + namePattern + `)\s*(?:(->|=>)\s*'([^']*)'\s*)?(?:,\s*'([^']*)'\s*)?\)`
	tagPattern      = `%\(\s*(?:(` + namePattern + `)\s*\.\s*)?(` + namePattern + `)\s*\)`
	propertyPattern = `\$\(\s*(` + namePattern + `)\s*\)`
)

var (
	itemRe      = regexp.MustCompile(itemPattern)
	tagRe       = regexp.MustCompile(tagPattern)
	propertyRe  = regexp.MustCompile(propertyPattern)
	referenceRe = regexp.MustCompile(`(` + itemPattern + `)|(` + tagPattern + `)|(` + propertyPattern + `)`)
)

// Submatch group indexes in referenceRe.
const (
	groupItem          = 1
	groupItemName      = 2
	groupItemArrow     = 3
	groupItemTransform = 4
	groupItemSeparator = 5
	groupTag           = 6
	groupTagItem       = 7
	groupTagKey        = 8
	groupProperty      = 9
	groupPropertyName  = 10
)

// ErrNestedItem indicates an item reference inside an item transform.
var ErrNestedItem = errors.New("item reference not allowed inside a transform")

// Kind identifies a reference kind.
type Kind int

const (
	// KindProperty is $(Name).
	KindProperty Kind = 1 << iota
	// KindItem is @(Name...).
	KindItem
	// KindTag is %(Key) or %(Item.Key).
	KindTag

	// AllKinds allows every reference kind.
	AllKinds = KindProperty | KindItem | KindTag
)

// DecomposeOption configures Decompose.
type DecomposeOption func(*decomposeConfig)

type decomposeConfig struct {
	allowed Kind
}

// WithAllowed restricts which reference kinds are recognized. References
// of other kinds stay in the output as literal text.
//
// Example:
//
//	parts, _ := template.Decompose("@(X) $(Y)", template.WithAllowed(template.KindProperty))
//	// parts: Literal("@(X) "), PropertyPart(Y)
func WithAllowed(kinds Kind) DecomposeOption {
	return func(c *decomposeConfig) {
		c.allowed = kinds
	}
}

// Decompose splits a template into literal text and references in a
// single left-to-right scan.
//
// Example:
//
//	parts, err := template.Decompose("$(OutDir)/@(Src->'%(Filename).obj',' ')")
//	// parts: PropertyPart(OutDir), Literal("/"), ItemPart(Src, transform, separator " ")
func Decompose(tmpl string, opts ...DecomposeOption) (Parts, error) {
	cfg := decomposeConfig{allowed: AllKinds}
	for _, opt := range opts {
		opt(&cfg)
	}
	return decompose(tmpl, cfg, false)
}

// MustDecompose is Decompose that panics on error.
func MustDecompose(tmpl string, opts ...DecomposeOption) Parts {
	parts, err := Decompose(tmpl, opts...)
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return parts
}

func decompose(tmpl string, cfg decomposeConfig, inTransform bool) (Parts, error) {
	var parts Parts
	literalStart := 0

	flush := func(end int) {
		if end > literalStart {
			raw := tmpl[literalStart:end]
			parts = append(parts, Literal{Text: Unescape(raw), Raw: raw})
		}
	}

	for _, m := range referenceRe.FindAllStringSubmatchIndex(tmpl, -1) {
		group := func(i int) (string, bool) {
			if m[2*i] < 0 {
				return "", false
			}
			return tmpl[m[2*i]:m[2*i+1]], true
		}

		var part Part
		switch {
		case m[2*groupItem] >= 0:
			if cfg.allowed&KindItem == 0 {
				continue
			}
			if inTransform {
				return nil, fmt.Errorf("%w: %s", ErrNestedItem, tmpl[m[0]:m[1]])
			}
			ip, err := newItemPart(group)
			if err != nil {
				return nil, err
			}
			part = ip
		case m[2*groupTag] >= 0:
			if cfg.allowed&KindTag == 0 {
				continue
			}
			item, _ := group(groupTagItem)
			key, _ := group(groupTagKey)
			part = TagPart{Item: item, Key: key}
		case m[2*groupProperty] >= 0:
			if cfg.allowed&KindProperty == 0 {
				continue
			}
			name, _ := group(groupPropertyName)
			part = PropertyPart{Name: name}
		}

		flush(m[0])
		parts = append(parts, part)
		literalStart = m[1]
	}
	flush(len(tmpl))

	return parts, nil
}

func newItemPart(group func(int) (string, bool)) (ItemPart, error) {
	name, _ := group(groupItemName)
	ip := ItemPart{Item: name}

	if transform, ok := group(groupItemTransform); ok {
		arrow, _ := group(groupItemArrow)
		// Transforms always see tags and properties, whatever the outer filter.
		inner, err := decompose(transform, decomposeConfig{allowed: AllKinds}, true)
		if err != nil {
			return ItemPart{}, err
		}
		ip.Transform = transform
		ip.TransformParts = inner
		ip.HasTransform = true
		ip.Arrow = arrow
	}
	if sep, ok := group(groupItemSeparator); ok {
		ip.Separator = Unescape(sep)
		ip.HasSeparator = true
	}
	return ip, nil
}

// ParseItemReference parses a complete @(...) reference such as the text of
// an item token. The second result is false if s is not exactly one reference.
func ParseItemReference(s string) (ItemPart, bool, error) {
	loc := itemRe.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] != len(s) {
		return ItemPart{}, false, nil
	}
	parts, err := Decompose(s, WithAllowed(KindItem))
	if err != nil {
		return ItemPart{}, true, err
	}
	ip, ok := parts[0].(ItemPart)
	return ip, ok, nil
}

// ParseTagReference parses a complete %(...) reference.
func ParseTagReference(s string) (TagPart, bool) {
	m := tagRe.FindStringSubmatch(s)
	if m == nil || len(m[0]) != len(s) {
		return TagPart{}, false
	}
	return TagPart{Item: m[1], Key: m[2]}, true
}

// ParsePropertyReference parses a complete $(...) reference.
func ParsePropertyReference(s string) (PropertyPart, bool) {
	m := propertyRe.FindStringSubmatch(s)
	if m == nil || len(m[0]) != len(s) {
		return PropertyPart{}, false
	}
	return PropertyPart{Name: strings.TrimSpace(m[1])}, true
}
