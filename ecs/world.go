package ecs

import (
	"github.com/kamstrup/intmap"

	"github.com/milk9111/hollowreach/ecs/component"
)

// World owns entity slots and one store per component kind.
type World struct {
	gens   []generation
	alive  []bool
	free   []entityID
	count  int
	stores map[component.ComponentID]store
}

// store is the type-erased view the world needs for entity teardown.
type store interface {
	del(id entityID) bool
	ids() []entityID
}

type typedStore[T any] struct {
	index  *intmap.Map[entityID, int]
	dense  []entityID
	values []*T
}

func newTypedStore[T any]() *typedStore[T] {
	return &typedStore[T]{index: intmap.New[entityID, int](64)}
}

func (s *typedStore[T]) get(id entityID) (*T, bool) {
	idx, ok := s.index.Get(id)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *typedStore[T]) put(id entityID, v *T) {
	if idx, ok := s.index.Get(id); ok {
		s.values[idx] = v
		return
	}
	s.index.Put(id, len(s.dense))
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
}

func (s *typedStore[T]) del(id entityID) bool {
	idx, ok := s.index.Get(id)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if idx != last {
		moved := s.dense[last]
		s.dense[idx] = moved
		s.values[idx] = s.values[last]
		s.index.Put(moved, idx)
	}
	s.values[last] = nil
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.index.Del(id)
	return true
}

func (s *typedStore[T]) ids() []entityID {
	out := make([]entityID, len(s.dense))
	copy(out, s.dense)
	return out
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// CreateEntity allocates a new entity, reusing freed slots with a bumped
// generation.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.gens = append(w.gens, 0)
		w.alive = append(w.alive, false)
		id = entityID(len(w.gens))
	}
	w.alive[id-1] = true
	w.count++
	return makeEntity(id, w.gens[id-1])
}

// DestroyEntity removes every component of e and frees its slot. It reports
// false for stale or unknown handles.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	id := e.id()
	for _, s := range w.stores {
		s.del(id)
	}
	w.alive[id-1] = false
	w.gens[id-1]++
	w.free = append(w.free, id)
	w.count--
	return true
}

func IsAlive(w *World, e Entity) bool {
	if w == nil || !e.Valid() {
		return false
	}
	idx := int(e.id()) - 1
	if idx >= len(w.gens) {
		return false
	}
	return w.alive[idx] && w.gens[idx] == e.generation()
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.count)
	for i, ok := range w.alive {
		if ok {
			out = append(out, makeEntity(entityID(i+1), w.gens[i]))
		}
	}
	return out
}

// EntityCount is the number of live entities.
func EntityCount(w *World) int {
	if w == nil {
		return 0
	}
	return w.count
}

func (w *World) handle(id entityID) (Entity, bool) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(w.gens) || !w.alive[idx] {
		return 0, false
	}
	return makeEntity(id, w.gens[idx]), true
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *typedStore[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*typedStore[T])
		return typed
	}
	if !create {
		return nil
	}
	s := newTypedStore[T]()
	w.stores[kind.ID()] = s
	return s
}
