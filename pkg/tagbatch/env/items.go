package env

// Item is a named, ordered collection of entries.
type Item struct {
	name    string
	entries []*Entry
}

// Name returns the item name as first added.
func (it *Item) Name() string {
	return it.name
}

// Len returns the number of entries.
func (it *Item) Len() int {
	return len(it.entries)
}

// Entries returns the entries in the order they were added.
func (it *Item) Entries() []*Entry {
	entries := make([]*Entry, len(it.entries))
	copy(entries, it.entries)
	return entries
}

// ItemCollection maps case-insensitive item names to items.
type ItemCollection struct {
	order []string
	items map[string]*Item
}

func newItemCollection() *ItemCollection {
	return &ItemCollection{items: make(map[string]*Item)}
}

func (c *ItemCollection) add(e *Entry) {
	folded := FoldName(e.item)
	it, ok := c.items[folded]
	if !ok {
		it = &Item{name: e.item}
		c.items[folded] = it
		c.order = append(c.order, folded)
	}
	it.entries = append(it.entries, e)
}

// Get returns the named item.
func (c *ItemCollection) Get(name string) (*Item, bool) {
	it, ok := c.items[FoldName(name)]
	return it, ok
}

// Len returns the number of distinct items.
func (c *ItemCollection) Len() int {
	return len(c.order)
}

// Names returns the item names in the order they were first added.
func (c *ItemCollection) Names() []string {
	names := make([]string, 0, len(c.order))
	for _, folded := range c.order {
		names = append(names, c.items[folded].name)
	}
	return names
}
