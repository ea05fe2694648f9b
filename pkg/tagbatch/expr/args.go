package expr

import "github.com/randalmurphal/tagbatch/pkg/tagbatch/template"

// ParserArgs controls which reference kinds a condition may contain and
// how mixed "and"/"or" chains are handled.
type ParserArgs struct {
	AllowProperties bool
	AllowItems      bool
	AllowTags       bool

	// ApplyAndOrPriority binds "and" tighter than "or" instead of
	// rejecting unparenthesized mixes with a PriorityError.
	ApplyAndOrPriority bool
}

// DefaultArgs allows every reference kind in strict mode.
func DefaultArgs() ParserArgs {
	return ParserArgs{
		AllowProperties: true,
		AllowItems:      true,
		AllowTags:       true,
	}
}

// ConditionArgs allows property and metadata references but not item
// references, in strict mode.
func ConditionArgs() ParserArgs {
	return ParserArgs{
		AllowProperties: true,
		AllowTags:       true,
	}
}

// kinds returns the template reference kinds recognized inside strings.
func (a ParserArgs) kinds() template.Kind {
	var k template.Kind
	if a.AllowProperties {
		k |= template.KindProperty
	}
	if a.AllowItems {
		k |= template.KindItem
	}
	if a.AllowTags {
		k |= template.KindTag
	}
	return k
}
