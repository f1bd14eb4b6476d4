package domain

// Manifest maps scene ids to the path of the file holding each scene's data.
// Inserts are strict: a colliding id returns DuplicateSceneIDError instead of
// overwriting, so two source files can never claim the same scene.
type Manifest struct {
	ids   []string
	paths map[string]string
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{paths: make(map[string]string)}
}

// Insert records a scene id → path entry. Returns DuplicateSceneIDError if
// the id is already present.
func (m *Manifest) Insert(id, path string) error {
	if _, exists := m.paths[id]; exists {
		return DuplicateSceneIDError{ID: id}
	}
	m.ids = append(m.ids, id)
	m.paths[id] = path
	return nil
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.ids)
}

// Path returns the path recorded for id.
func (m *Manifest) Path(id string) (string, bool) {
	p, ok := m.paths[id]
	return p, ok
}

// IDs returns the scene ids in insertion order.
func (m *Manifest) IDs() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// Entries returns a copy of the id → path mapping.
func (m *Manifest) Entries() map[string]string {
	out := make(map[string]string, len(m.paths))
	for id, p := range m.paths {
		out[id] = p
	}
	return out
}
