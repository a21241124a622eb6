package repository

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/entity"
)

// ErrStoreClosed is returned by writes after Close.
var ErrStoreClosed = errors.New("document store closed")

// DocumentRepository is what the pipeline and the rendering layer depend on.
type DocumentRepository interface {
	Insert(doc entity.Document) error
	All() []entity.Document
	Get(id string) (entity.Document, error)
	Items() []entity.DocumentItem
	Clear()
}

// ItemPatch holds the editable fields of a line item; nil means unchanged.
type ItemPatch struct {
	Description *string
	Quantity    *int
	Unit        *string
	UnitPrice   *decimal.Decimal
	Total       *decimal.Decimal
}

// DocumentStore is the in-memory, newest-first collection of documents of one session.
type DocumentStore struct {
	mu     sync.RWMutex
	docs   []entity.Document
	closed bool
	logger *slog.Logger
}

var _ DocumentRepository = (*DocumentStore)(nil)

func NewDocumentStore(logger *slog.Logger) *DocumentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentStore{logger: logger}
}

// Insert prepends doc. The stored copy is independent of the caller's.
func (s *DocumentStore) Insert(doc entity.Document) error {
	if doc.ID == "" {
		return common.NewValidationError("document id is required", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if s.indexLocked(doc.ID) >= 0 {
		return common.NewValidationError("duplicate document id "+doc.ID, nil)
	}
	s.docs = append([]entity.Document{doc.Clone()}, s.docs...)
	s.logger.Debug("store.insert", "document_id", doc.ID, "document_number", doc.DocumentNumber, "size", len(s.docs))
	return nil
}

// All returns a copy of every document, newest first.
func (s *DocumentStore) All() []entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Document, len(s.docs))
	for i := range s.docs {
		out[i] = s.docs[i].Clone()
	}
	return out
}

func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Get finds a document by id with a linear scan.
func (s *DocumentStore) Get(id string) (entity.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return entity.Document{}, common.NewNotFoundError("document " + id)
	}
	return s.docs[i].Clone(), nil
}

// Items flattens every document's items, documents newest first and items in order.
func (s *DocumentStore) Items() []entity.DocumentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.DocumentItem
	for _, d := range s.docs {
		for _, it := range d.Items {
			out = append(out, entity.DocumentItem{
				DocumentID:       d.ID,
				DocumentNumber:   d.DocumentNumber,
				DocumentType:     d.Type,
				CounterpartyName: d.CounterpartyName,
				FileName:         d.FileName,
				LineItem:         it,
			})
		}
	}
	return out
}

// Clear removes every document.
func (s *DocumentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.docs)
	s.docs = nil
	s.logger.Info("store.clear", "removed", n)
}

// Close empties the store and rejects further writes.
func (s *DocumentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.closed = true
	return nil
}

// SetDocumentStatus confirms or rejects a whole document.
func (s *DocumentStore) SetDocumentStatus(docID string, status constants.DocumentStatus) error {
	if !status.Valid() {
		return common.NewValidationError("invalid document status "+string(status), nil)
	}
	return s.mutate(docID, func(d *entity.Document) error {
		d.Status = status
		return nil
	})
}

// SetItemStatus changes one item's status in place. reason is kept only for rejections.
func (s *DocumentStore) SetItemStatus(docID, itemCode string, status constants.ItemStatus, reason string) error {
	if !status.Valid() {
		return common.NewValidationError("invalid item status "+string(status), nil)
	}
	return s.mutate(docID, func(d *entity.Document) error {
		i := d.ItemIndex(itemCode)
		if i < 0 {
			return common.NewNotFoundError("item " + itemCode + " in document " + docID)
		}
		d.Items[i].Status = status
		if status == constants.ItemStatusRejected {
			d.Items[i].Reason = reason
		} else {
			d.Items[i].Reason = ""
		}
		s.logger.Info("store.item.status", "document_id", docID, "item_code", itemCode, "status", status)
		return nil
	})
}

// UpdateItem applies patch to one item. When quantity or price change without an
// explicit total, the total is recomputed.
func (s *DocumentStore) UpdateItem(docID, itemCode string, patch ItemPatch) error {
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return common.NewValidationError("quantity must be >= 0", nil)
	}
	for _, v := range []*decimal.Decimal{patch.UnitPrice, patch.Total} {
		if v != nil && v.IsNegative() {
			return common.NewValidationError("amounts must be >= 0", nil)
		}
	}
	return s.mutate(docID, func(d *entity.Document) error {
		i := d.ItemIndex(itemCode)
		if i < 0 {
			return common.NewNotFoundError("item " + itemCode + " in document " + docID)
		}
		it := &d.Items[i]
		if patch.Description != nil {
			it.Description = *patch.Description
		}
		if patch.Unit != nil {
			it.Unit = *patch.Unit
		}
		if patch.Quantity != nil {
			it.Quantity = *patch.Quantity
		}
		if patch.UnitPrice != nil {
			it.UnitPrice = *patch.UnitPrice
		}
		switch {
		case patch.Total != nil:
			it.Total = *patch.Total
		case patch.Quantity != nil || patch.UnitPrice != nil:
			it.Total = it.ComputedTotal()
		}
		d.TotalItemCount = len(d.Items)
		return nil
	})
}

func (s *DocumentStore) mutate(docID string, fn func(*entity.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	i := s.indexLocked(docID)
	if i < 0 {
		return common.NewNotFoundError("document " + docID)
	}
	// work on a copy so a failed mutation leaves the stored document untouched
	doc := s.docs[i].Clone()
	if err := fn(&doc); err != nil {
		return err
	}
	s.docs[i] = doc
	return nil
}

func (s *DocumentStore) indexLocked(id string) int {
	for i := range s.docs {
		if s.docs[i].ID == id {
			return i
		}
	}
	return -1
}
