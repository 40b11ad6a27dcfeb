/**
 * @description
 * In-memory implementations of the registry interfaces. State is process
 * lifetime only: nothing survives a restart, which matches the dashboard's
 * rebuild-from-provider model. A single RWMutex per store serializes the
 * duplicate-check-then-insert and status-patch sequences.
 */
package store

import (
	"strings"
	"sync"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

// WebhookBufferCapacity bounds the retained webhook history.
const WebhookBufferCapacity = 100

// MemoryCustomerStore is the in-memory CustomerStore.
type MemoryCustomerStore struct {
	mu        sync.RWMutex
	customers []domain.Customer
}

// NewMemoryCustomerStore creates an empty customer registry.
func NewMemoryCustomerStore() *MemoryCustomerStore {
	return &MemoryCustomerStore{}
}

// Upsert inserts the customer or replaces the record with the same ID.
func (s *MemoryCustomerStore) Upsert(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == c.ID {
			s.customers[i] = c
			return
		}
	}
	s.customers = append(s.customers, c)
}

// FindByID returns the customer with the given ID.
func (s *MemoryCustomerStore) FindByID(id string) (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// FindByEmail returns the customer with the given email, compared
// case-insensitively.
func (s *MemoryCustomerStore) FindByEmail(email string) (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if strings.EqualFold(c.Email, email) {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// FindByPhone returns the customer with the exact phone number. Empty
// phones never match.
func (s *MemoryCustomerStore) FindByPhone(phone string) (domain.Customer, bool) {
	if phone == "" {
		return domain.Customer{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.Phone == phone {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// UpdateStatus patches the status of the customer with the given ID and
// reports whether a record matched.
func (s *MemoryCustomerStore) UpdateStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers[i].Status = status
			return true
		}
	}
	return false
}

// All returns a copy of the registry.
func (s *MemoryCustomerStore) All() []domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// ReplaceAll swaps the entire registry for a fresh provider snapshot.
func (s *MemoryCustomerStore) ReplaceAll(customers []domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = make([]domain.Customer, len(customers))
	copy(s.customers, customers)
}

// Clear empties the registry.
func (s *MemoryCustomerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = nil
}

// MemoryTransferStore is the in-memory TransferStore.
type MemoryTransferStore struct {
	mu        sync.RWMutex
	transfers []domain.Transfer
}

// NewMemoryTransferStore creates an empty transfer registry.
func NewMemoryTransferStore() *MemoryTransferStore {
	return &MemoryTransferStore{}
}

// Append adds a transfer to the registry.
func (s *MemoryTransferStore) Append(t domain.Transfer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = append(s.transfers, t)
}

// FindByID returns the transfer with the given ID.
func (s *MemoryTransferStore) FindByID(id string) (domain.Transfer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transfers {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Transfer{}, false
}

// UpdateStatus patches the status of the transfer with the given ID and
// reports whether a record matched.
func (s *MemoryTransferStore) UpdateStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transfers {
		if s.transfers[i].ID == id {
			s.transfers[i].Status = status
			return true
		}
	}
	return false
}

// All returns a copy of the registry.
func (s *MemoryTransferStore) All() []domain.Transfer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transfer, len(s.transfers))
	copy(out, s.transfers)
	return out
}

// ReplaceAll swaps the entire registry for a fresh provider snapshot.
func (s *MemoryTransferStore) ReplaceAll(transfers []domain.Transfer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = make([]domain.Transfer, len(transfers))
	copy(s.transfers, transfers)
}

// Clear empties the registry.
func (s *MemoryTransferStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = nil
}

// MemoryWebhookBuffer is the in-memory WebhookBuffer, a newest-first ring
// capped at WebhookBufferCapacity entries.
type MemoryWebhookBuffer struct {
	mu       sync.RWMutex
	capacity int
	events   []domain.WebhookEvent
}

// NewMemoryWebhookBuffer creates an empty buffer with the default capacity.
func NewMemoryWebhookBuffer() *MemoryWebhookBuffer {
	return &MemoryWebhookBuffer{capacity: WebhookBufferCapacity}
}

// Record prepends the event and truncates the buffer to capacity, dropping
// the oldest entry on overflow.
func (s *MemoryWebhookBuffer) Record(ev domain.WebhookEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]domain.WebhookEvent{ev}, s.events...)
	if len(s.events) > s.capacity {
		s.events = s.events[:s.capacity]
	}
}

// Seen reports whether an event with the same ID and topic is still in the
// retained window. Used to keep provider redeliveries from re-patching
// local state.
func (s *MemoryWebhookBuffer) Seen(id, topic string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.ID == id && ev.Topic == topic {
			return true
		}
	}
	return false
}

// All returns a copy of the buffer, newest first.
func (s *MemoryWebhookBuffer) All() []domain.WebhookEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WebhookEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Clear empties the buffer.
func (s *MemoryWebhookBuffer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
