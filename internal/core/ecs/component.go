package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// OrderedStore is a generic typed component store that remembers insertion
// order. Lookups go through the id map; iteration follows the order slice.
type OrderedStore[T any] struct {
	data  map[EntityID]*T
	order []EntityID
}

func NewOrderedStore[T any]() *OrderedStore[T] {
	return &OrderedStore[T]{
		data:  make(map[EntityID]*T, 32),
		order: make([]EntityID, 0, 32),
	}
}

// Set inserts or replaces the component. Replacing keeps the original position.
func (s *OrderedStore[T]) Set(id EntityID, c *T) {
	if _, ok := s.data[id]; !ok {
		s.order = append(s.order, id)
	}
	s.data[id] = c
}

func (s *OrderedStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *OrderedStore[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *OrderedStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *OrderedStore[T]) Len() int {
	return len(s.data)
}

// Each visits components in insertion order. fn may not add or remove
// entities; removals go through World.MarkForDestruction instead.
func (s *OrderedStore[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.order {
		fn(id, s.data[id])
	}
}

// Find returns the first component, in insertion order, accepted by match.
func (s *OrderedStore[T]) Find(match func(EntityID, *T) bool) (EntityID, *T, bool) {
	for _, id := range s.order {
		if c := s.data[id]; match(id, c) {
			return id, c, true
		}
	}
	return 0, nil, false
}

// IDs returns a copy of the ids in insertion order.
func (s *OrderedStore[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.order))
	copy(out, s.order)
	return out
}
