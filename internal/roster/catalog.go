package roster

import (
	"fmt"
	"sort"
)

// Catalog is the full read-only set of known cookies, indexed by name.
//
// Invariant: names are unique; the catalog is never mutated after construction
// and is safe for concurrent reads.
type Catalog struct {
	cookies []*Cookie
	byName  map[string]*Cookie
}

// NewCatalog builds a Catalog from the given cookies.
//
// Precondition: cookie names must be unique and non-empty.
// Postcondition: Returns a Catalog with cookies sorted by name, or an error
// naming the first duplicate or empty name.
func NewCatalog(cookies []*Cookie) (*Catalog, error) {
	byName := make(map[string]*Cookie, len(cookies))
	sorted := make([]*Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			return nil, fmt.Errorf("cookie with empty name")
		}
		if _, ok := byName[c.Name]; ok {
			return nil, fmt.Errorf("duplicate cookie name %q", c.Name)
		}
		byName[c.Name] = c
		sorted = append(sorted, c)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Catalog{cookies: sorted, byName: byName}, nil
}

// Get returns the cookie with the given name.
func (c *Catalog) Get(name string) (*Cookie, bool) {
	ck, ok := c.byName[name]
	return ck, ok
}

// All returns every cookie sorted by name. The returned slice is a copy; the
// pointed-to cookies are shared and must not be mutated.
func (c *Catalog) All() []*Cookie {
	out := make([]*Cookie, len(c.cookies))
	copy(out, c.cookies)
	return out
}

// Len returns the number of cookies in the catalog.
func (c *Catalog) Len() int {
	return len(c.cookies)
}

// Filter returns all cookies for which keep returns true, sorted by name.
func (c *Catalog) Filter(keep func(*Cookie) bool) []*Cookie {
	var out []*Cookie
	for _, ck := range c.cookies {
		if keep(ck) {
			out = append(out, ck)
		}
	}
	return out
}

// Resolve maps names to cookies, reporting the first unknown name.
//
// Postcondition: Returns cookies in input order, or an error wrapping the
// first name not present in the catalog.
func (c *Catalog) Resolve(names []string) ([]*Cookie, error) {
	out := make([]*Cookie, 0, len(names))
	for _, name := range names {
		ck, ok := c.byName[name]
		if !ok {
			return nil, fmt.Errorf("cookie %q not in catalog", name)
		}
		out = append(out, ck)
	}
	return out, nil
}
