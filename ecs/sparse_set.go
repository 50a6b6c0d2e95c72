package ecs

// SparseSet stores one component value per entity slot. Values are kept in
// a dense slice so iteration stays linear in the number of owners.
type SparseSet struct {
	denseEntities []Entity
	denseValues   []any
	sparse        []int
}

func (s *SparseSet) index(id entityID) (int, bool) {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.denseEntities) || s.denseEntities[idx].id() != id {
		return 0, false
	}
	return idx, true
}

// Has returns true if e currently owns a value in the set.
func (s *SparseSet) Has(e Entity) bool {
	idx, ok := s.index(e.id())
	return ok && s.denseEntities[idx] == e
}

// Get returns the value stored for e, or nil.
func (s *SparseSet) Get(e Entity) any {
	idx, ok := s.index(e.id())
	if !ok || s.denseEntities[idx] != e {
		return nil
	}
	return s.denseValues[idx]
}

// Set inserts or replaces the value for e. A stale generation occupying the
// same slot is overwritten.
func (s *SparseSet) Set(e Entity, v any) {
	if s == nil || !e.Valid() {
		return
	}
	id := e.id()
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if idx, ok := s.index(id); ok {
		s.denseEntities[idx] = e
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
}

// Remove deletes the value for e if present.
func (s *SparseSet) Remove(e Entity) bool {
	idx, ok := s.index(e.id())
	if !ok || s.denseEntities[idx] != e {
		return false
	}
	last := len(s.denseEntities) - 1
	moved := s.denseEntities[last]

	s.denseEntities[idx] = moved
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[moved.id()-1] = idx

	s.denseEntities[last] = 0
	s.denseValues[last] = nil
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[e.id()-1] = -1
	return true
}

// Len returns the number of stored values.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Entities returns a copy of the dense owner list.
func (s *SparseSet) Entities() []Entity {
	if s == nil || len(s.denseEntities) == 0 {
		return nil
	}
	out := make([]Entity, len(s.denseEntities))
	copy(out, s.denseEntities)
	return out
}
