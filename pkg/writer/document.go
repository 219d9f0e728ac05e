package writer

import (
	"fmt"
	"sort"
)

// Document is one rendered output file, named relative to the output root.
type Document struct {
	Name    string
	Content []byte
}

// DocumentSet collects the documents of one run in insertion order.
// Names are unique within a set.
type DocumentSet struct {
	docs  []Document
	index map[string]int
}

// NewDocumentSet creates an empty set.
func NewDocumentSet() *DocumentSet {
	return &DocumentSet{index: make(map[string]int)}
}

// Add appends documents, failing on the first duplicate name.
func (s *DocumentSet) Add(docs ...Document) error {
	for _, d := range docs {
		if d.Name == "" {
			return fmt.Errorf("document has no name")
		}
		if _, ok := s.index[d.Name]; ok {
			return fmt.Errorf("duplicate document %q", d.Name)
		}
		s.index[d.Name] = len(s.docs)
		s.docs = append(s.docs, d)
	}
	return nil
}

// Get returns the document with the given name.
func (s *DocumentSet) Get(name string) (Document, bool) {
	i, ok := s.index[name]
	if !ok {
		return Document{}, false
	}
	return s.docs[i], true
}

// Documents returns the documents in insertion order.
func (s *DocumentSet) Documents() []Document {
	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Names returns the sorted document names.
func (s *DocumentSet) Names() []string {
	names := make([]string, 0, len(s.docs))
	for _, d := range s.docs {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of documents.
func (s *DocumentSet) Len() int {
	return len(s.docs)
}
