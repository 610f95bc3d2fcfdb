package storage

import (
	"fmt"
	"os"

	"github.com/maruel/notedb/internal/jsondb"
	"github.com/maruel/notedb/internal/models"
)

// Store persists the metadata index and serializes all mutations to it. Reads
// return a fresh decode of the file, so callers may inspect the result freely
// without holding anything.
type Store struct {
	doc *jsondb.Document[models.MetadataIndex]
}

// NewStore opens the metadata store backed by path, writing an empty index
// when the file does not exist yet.
func NewStore(path string) (*Store, error) {
	doc, err := jsondb.Open[models.MetadataIndex](path)
	if err != nil {
		return nil, err
	}
	s := &Store{doc: doc}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		idx := &models.MetadataIndex{}
		idx.Normalize()
		if err := doc.Save(idx); err != nil {
			return nil, fmt.Errorf("failed to initialize metadata index: %w", err)
		}
	}
	return s, nil
}

// Load returns the current index. Missing or corrupt files come back as an
// empty index; slices are always non-nil.
func (s *Store) Load() *models.MetadataIndex {
	idx := s.doc.Load()
	idx.Normalize()
	return idx
}

// Update applies fn to the index under the writer lock and persists the
// result when fn reports a change.
func (s *Store) Update(fn func(*models.MetadataIndex) (bool, error)) (bool, error) {
	return s.doc.Update(func(idx *models.MetadataIndex) (bool, error) {
		idx.Normalize()
		return fn(idx)
	})
}
