package core

import "github.com/emirpasic/gods/v2/sets/linkedhashset"

// OrderedSet keeps values in first-insertion order and ignores repeats.
type OrderedSet[T comparable] struct {
	set *linkedhashset.Set[T]
}

func NewOrderedSet[T comparable](values ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{set: linkedhashset.New[T]()}
	for _, value := range values {
		s.Add(value)
	}
	return s
}

// Add inserts value if absent and reports whether it was inserted.
func (s *OrderedSet[T]) Add(value T) bool {
	if s.set.Contains(value) {
		return false
	}
	s.set.Add(value)
	return true
}

func (s *OrderedSet[T]) Contains(value T) bool {
	return s.set.Contains(value)
}

func (s *OrderedSet[T]) Len() int {
	return s.set.Size()
}

func (s *OrderedSet[T]) Values() []T {
	return s.set.Values()
}

func (s *OrderedSet[T]) Clone() *OrderedSet[T] {
	return NewOrderedSet(s.set.Values()...)
}
