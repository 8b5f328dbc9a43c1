// Package stmt is the connection-scoped prepared-statement cache: name to
// SQL text, with duplicate-name-different-text rejected before a Parse
// message is ever sent.
package stmt

import (
	"github.com/lattice-db/pgwire/pgerr"
)

// Cache tracks every named prepared statement issued on one connection.
// The anonymous statement ("") bypasses the cache entirely: it is
// implicitly redefined by every Parse and never needs a duplicate check.
type Cache struct {
	byName map[string]string
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{byName: make(map[string]string)}
}

// Prepare records name -> query, or returns an InvalidState error if
// name is already registered with different SQL text. Preparing the same
// name with the identical text is a no-op success, not an error — this
// lets callers call Prepare idempotently without tracking what they've
// already sent.
func (c *Cache) Prepare(name, query string) error {
	if name == "" {
		return nil
	}
	if existing, ok := c.byName[name]; ok {
		if existing == query {
			return nil
		}
		return pgerr.New(pgerr.KindInvalidState, "stmt: statement %q already prepared with different text", name)
	}
	c.byName[name] = query
	return nil
}

// Lookup returns the SQL text registered for name, and ok=false if name was
// never prepared (or was deallocated).
func (c *Cache) Lookup(name string) (query string, ok bool) {
	query, ok = c.byName[name]
	return query, ok
}

// Deallocate forgets name, so a later Prepare with different text for the
// same name is accepted.
func (c *Cache) Deallocate(name string) {
	delete(c.byName, name)
}

// Names returns every currently-registered statement name, for DISCARD ALL
// / connection reset bookkeeping.
func (c *Cache) Names() []string {
	out := make([]string, 0, len(c.byName))
	for name := range c.byName {
		out = append(out, name)
	}
	return out
}
