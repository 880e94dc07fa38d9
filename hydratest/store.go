package hydratest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Resource is a stored record, JSON-LD members included.
type Resource = map[string]any

type collection struct {
	name     string
	typ      string
	required []string
	nextID   int
	items    map[int]Resource
}

// store holds every collection in memory.
type store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	order       []string
}

func newStore() *store {
	return &store{collections: make(map[string]*collection)}
}

func (s *store) define(name, typ string, required []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return
	}
	if typ == "" {
		typ = typeName(name)
	}
	s.collections[name] = &collection{
		name:     name,
		typ:      typ,
		required: required,
		nextID:   1,
		items:    make(map[int]Resource),
	}
	s.order = append(s.order, name)
}

func (s *store) lookup(name string) (*collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	return c, ok
}

func (s *store) names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// insert assigns the next id and stores a copy of data.
func (s *store) insert(c *collection, data Resource) Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.nextID
	c.nextID++
	res := c.stamp(id, data)
	c.items[id] = res
	return clone(res)
}

func (s *store) get(c *collection, id int) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return clone(res), true
}

// all returns copies of every resource ordered by id.
func (s *store) all(c *collection) []Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Resource, len(ids))
	for i, id := range ids {
		out[i] = clone(c.items[id])
	}
	return out
}

// replace swaps the stored resource for data, keeping its identity.
func (s *store) replace(c *collection, id int, data Resource) (Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return nil, false
	}
	res := c.stamp(id, data)
	c.items[id] = res
	return clone(res), true
}

func (s *store) remove(c *collection, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

func (c *collection) iri(id int) string {
	return fmt.Sprintf("/%s/%d", c.name, id)
}

// stamp sets the identity members of a resource, overriding client values.
func (c *collection) stamp(id int, data Resource) Resource {
	res := make(Resource, len(data)+3)
	for k, v := range data {
		res[k] = v
	}
	res["@id"] = c.iri(id)
	res["@type"] = c.typ
	res["id"] = id
	return res
}

func parseID(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// typeName derives a resource type from a collection name: "books" -> "Book".
func typeName(name string) string {
	name = strings.TrimSuffix(name, "s")
	if name == "" {
		return "Resource"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func clone(r Resource) Resource {
	out := make(Resource, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return clone(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
