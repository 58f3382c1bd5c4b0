package resolve

import (
	"sort"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/identity"
)

// slot is one declaration in the cache: reserved first, filled once its members are resolved
type slot struct {
	fullName string
	output   *typegen.OutputType
}

// Cache is the resolution context of one generation run.
// It is the sole owner of OutputType instances and holds at most one per identity.
// Not safe for concurrent writes; resolution is single-threaded.
type Cache struct {
	slots map[identity.Identity]*slot
	order []identity.Identity
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{slots: make(map[identity.Identity]*slot)}
}

// Reserve claims id for fullName. Returns false if the identity is already reserved or filled.
func (c *Cache) Reserve(id identity.Identity, fullName string) bool {
	if _, ok := c.slots[id]; ok {
		return false
	}
	c.slots[id] = &slot{fullName: fullName}
	c.order = append(c.order, id)
	return true
}

// Fill stores the resolved declaration in a reserved slot
func (c *Cache) Fill(out *typegen.OutputType) error {
	s, ok := c.slots[out.Identity]
	if !ok {
		return errors.AssertionFailedf("fill of unreserved declaration %s", out.Identity)
	}
	if s.output != nil {
		return errors.AssertionFailedf("declaration %s filled twice", out.Identity)
	}
	s.output = out
	return nil
}

// Contains reports whether id is reserved or filled
func (c *Cache) Contains(id identity.Identity) bool {
	_, ok := c.slots[id]
	return ok
}

// Lookup returns the filled declaration for id
func (c *Cache) Lookup(id identity.Identity) (*typegen.OutputType, bool) {
	s, ok := c.slots[id]
	if !ok || s.output == nil {
		return nil, false
	}
	return s.output, true
}

// Pending lists identities reserved but never filled
func (c *Cache) Pending() []identity.Identity {
	var pending []identity.Identity
	for _, id := range c.order {
		if c.slots[id].output == nil {
			pending = append(pending, id)
		}
	}
	return pending
}

// Len is the number of reserved or filled slots
func (c *Cache) Len() int {
	return len(c.slots)
}

// Declarations returns every filled declaration ordered by identity
func (c *Cache) Declarations() []*typegen.OutputType {
	out := make([]*typegen.OutputType, 0, len(c.slots))
	for _, id := range c.order {
		if s := c.slots[id]; s.output != nil {
			out = append(out, s.output)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identity.Less(out[j].Identity)
	})
	return out
}
