package permission

import (
	"errors"
	"fmt"
	"strings"
)

// Catalog is the closed set of permissions available to one association.
type Catalog struct {
	// entries keeps insertion order for listing.
	entries []Permission
	index   map[ID]int
}

// NewCatalog builds a catalog from the given permissions.
// Ids are trimmed; duplicates, blank ids and unknown categories are rejected.
func NewCatalog(perms ...Permission) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Permission, 0, len(perms)),
		index:   make(map[ID]int, len(perms)),
	}

	for _, p := range perms {
		p.ID = ID(strings.TrimSpace(string(p.ID)))
		if p.ID == "" {
			return nil, ErrEmptyID
		}
		if !p.Category.Valid() {
			return nil, errors.Join(ErrInvalidCategory, fmt.Errorf("permission %q has category %q", p.ID, p.Category))
		}
		if _, exists := c.index[p.ID]; exists {
			return nil, errors.Join(ErrDuplicatePermission, fmt.Errorf("permission %q", p.ID))
		}
		if p.Name == "" {
			p.Name = string(p.ID)
		}
		c.index[p.ID] = len(c.entries)
		c.entries = append(c.entries, p)
	}

	return c, nil
}

// MustCatalog is like NewCatalog but panics on error.
func MustCatalog(perms ...Permission) *Catalog {
	c, err := NewCatalog(perms...)
	if err != nil {
		panic(err)
	}
	return c
}

// Has reports whether id belongs to the catalog. A nil catalog contains nothing.
func (c *Catalog) Has(id ID) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}

// Get returns the catalog entry for id.
func (c *Catalog) Get(id ID) (Permission, bool) {
	if c == nil {
		return Permission{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Permission{}, false
	}
	return c.entries[i], true
}

// CategoryOf returns the category of id, or false if id is not in the catalog.
func (c *Catalog) CategoryOf(id ID) (Category, bool) {
	p, ok := c.Get(id)
	return p.Category, ok
}

// All returns a copy of every entry in catalog order.
func (c *Catalog) All() []Permission {
	if c == nil {
		return nil
	}
	out := make([]Permission, len(c.entries))
	copy(out, c.entries)
	return out
}

// IDs returns every permission id in catalog order.
func (c *Catalog) IDs() []ID {
	if c == nil {
		return nil
	}
	ids := make([]ID, len(c.entries))
	for i, p := range c.entries {
		ids[i] = p.ID
	}
	return ids
}

// Strings returns every permission id as a plain string, in catalog order.
func (c *Catalog) Strings() []string {
	ids := c.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Len returns the number of permissions in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Unknown returns the ids that are not part of the catalog, preserving input order
// and dropping repeats.
func (c *Catalog) Unknown(ids []ID) []ID {
	var unknown []ID
	seen := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !c.Has(id) {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

// ByCategory returns the catalog entries of a single category.
func (c *Catalog) ByCategory(cat Category) []Permission {
	if c == nil {
		return nil
	}
	var out []Permission
	for _, p := range c.entries {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}
