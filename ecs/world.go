package ecs

import "github.com/milk9111/slingshot/ecs/component"

// World owns entities and their component stores.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		if !create {
			return nil
		}
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s := w.stores[id]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Len reports the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.count
}

// Clear destroys every entity and drops all component stores. Generations
// survive, so handles taken before Clear stay dead.
func (w *World) Clear() {
	if w == nil {
		return
	}
	for _, e := range Entities(w) {
		w.entities.destroy(e)
	}
	w.stores = make(map[component.ComponentID]*SparseSet)
}
