package panes

import "github.com/Protocol-Lattice/alogic-playground/src/compile"

// Store owns every live document. Panes only hold references.
type Store struct {
	docs map[string]*Document
}

func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Create makes a document under key, replacing any previous one.
func (s *Store) Create(key, title, text string, kind Kind, profile compile.Profile) *Document {
	d := newDocument(key, title, text, kind, profile)
	s.docs[key] = d
	return d
}

func (s *Store) Get(key string) (*Document, bool) {
	d, ok := s.docs[key]
	return d, ok
}

// Destroy drops the document. Unknown keys are ignored.
func (s *Store) Destroy(key string) {
	if d, ok := s.docs[key]; ok {
		d.Blur()
		delete(s.docs, key)
	}
}

func (s *Store) Len() int { return len(s.docs) }
