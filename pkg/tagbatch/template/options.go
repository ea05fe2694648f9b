package template

// MissingAction specifies how to handle references that cannot be resolved.
// It applies to properties and metadata. An item without entries is never
// missing; it renders as an empty list.
type MissingAction int

const (
	// MissingEmpty replaces an unresolved reference with an empty string.
	// This is the default behavior.
	MissingEmpty MissingAction = iota

	// MissingKeep keeps the reference as written.
	MissingKeep

	// MissingError returns an *UndefinedReferenceError.
	MissingError
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithMissingAction sets how unresolved references are handled.
//
// Default: MissingEmpty
//
// Example:
//
//	r := NewRenderer(WithMissingAction(MissingError))
//	_, err := r.Render(MustDecompose("$(Missing)"), env.New())
//	// err: "undefined reference: $(Missing)"
func WithMissingAction(action MissingAction) Option {
	return func(r *Renderer) {
		r.missingAction = action
	}
}

// WithItemSeparator sets the separator used when an item reference without
// an explicit separator is joined into a scalar.
//
// Default: ";"
func WithItemSeparator(sep string) Option {
	return func(r *Renderer) {
		r.itemSeparator = sep
	}
}
