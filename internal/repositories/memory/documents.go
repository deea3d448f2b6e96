package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
)

func (s *Store) SaveDocument(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.DocumentID]; exists {
		return fmt.Errorf("%w: document with ID %s already exists", apperrors.ErrDuplicate, doc.DocumentID)
	}
	for _, existing := range s.documents {
		if existing.CompanyID == doc.CompanyID && existing.Number == doc.Number {
			return fmt.Errorf("%w: document number %s already used", apperrors.ErrDuplicate, doc.Number)
		}
	}
	s.documents[doc.DocumentID] = cloneDocument(doc)
	return nil
}

func (s *Store) FindDocumentByID(_ context.Context, documentID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	doc = cloneDocument(doc)
	return &doc, nil
}
