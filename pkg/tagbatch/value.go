package tagbatch

import (
	"strconv"
	"strings"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// Value is the produced value of one output in one row.
// Type() tells which accessor holds the value; the other accessors return
// zero values.
type Value struct {
	typ   OutputType
	b     bool
	s     string
	item  env.TagItem
	strs  []string
	items []env.TagItem
}

// BoolValue creates the value of a condition output.
func BoolValue(b bool) Value {
	return Value{typ: Condition, b: b}
}

// StringValue creates the value of a String output.
func StringValue(s string) Value {
	return Value{typ: String, s: s}
}

// ItemValue creates the value of an Item output. item may be nil when the
// template rendered to nothing.
func ItemValue(item env.TagItem) Value {
	return Value{typ: Item, item: item}
}

// StringListValue creates the value of a StringList output.
func StringListValue(strs []string) Value {
	return Value{typ: StringList, strs: strs}
}

// ItemListValue creates the value of an ItemList output.
func ItemListValue(items []env.TagItem) Value {
	return Value{typ: ItemList, items: items}
}

// Type returns the output type the value was produced for.
func (v Value) Type() OutputType {
	return v.typ
}

// AsBool returns the result of a condition output.
func (v Value) AsBool() bool {
	return v.b
}

// AsString returns the rendered text of a String output.
func (v Value) AsString() string {
	return v.s
}

// AsItem returns the entry of an Item output, nil if empty.
func (v Value) AsItem() env.TagItem {
	return v.item
}

// AsStrings returns the elements of a StringList output.
func (v Value) AsStrings() []string {
	return v.strs
}

// AsItems returns the entries of an ItemList output.
func (v Value) AsItems() []env.TagItem {
	return v.items
}

// Len returns the number of list elements, 1 for scalars with a value
// and 0 otherwise.
func (v Value) Len() int {
	switch v.typ {
	case StringList:
		return len(v.strs)
	case ItemList:
		return len(v.items)
	case Item:
		if v.item == nil {
			return 0
		}
		return 1
	case Condition, String:
		return 1
	}
	return 0
}

// String renders the value as text. Lists are joined with ";".
func (v Value) String() string {
	switch v.typ {
	case Condition:
		return strconv.FormatBool(v.b)
	case String:
		return v.s
	case Item:
		if v.item == nil {
			return ""
		}
		return v.item.ItemSpec()
	case StringList:
		return strings.Join(v.strs, ";")
	case ItemList:
		specs := make([]string, len(v.items))
		for i, it := range v.items {
			specs[i] = it.ItemSpec()
		}
		return strings.Join(specs, ";")
	}
	return ""
}
