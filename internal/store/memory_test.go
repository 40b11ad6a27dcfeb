package store

import (
	"fmt"
	"testing"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

func TestCustomerStore_FindByEmailIsCaseInsensitive(t *testing.T) {
	s := NewMemoryCustomerStore()
	s.Upsert(domain.Customer{ID: "c1", Email: "Jane@Example.com"})

	if _, ok := s.FindByEmail("jane@example.com"); !ok {
		t.Fatal("expected lowercase lookup to match mixed-case email")
	}
	if _, ok := s.FindByEmail("JANE@EXAMPLE.COM"); !ok {
		t.Fatal("expected uppercase lookup to match mixed-case email")
	}
	if _, ok := s.FindByEmail("other@example.com"); ok {
		t.Fatal("expected no match for a different email")
	}
}

func TestCustomerStore_FindByPhoneIgnoresEmpty(t *testing.T) {
	s := NewMemoryCustomerStore()
	s.Upsert(domain.Customer{ID: "c1", Email: "a@b.com"})
	s.Upsert(domain.Customer{ID: "c2", Email: "c@d.com", Phone: "5551234567"})

	if _, ok := s.FindByPhone(""); ok {
		t.Fatal("empty phone must never match")
	}
	got, ok := s.FindByPhone("5551234567")
	if !ok || got.ID != "c2" {
		t.Fatalf("expected c2 for phone lookup, got %+v ok=%t", got, ok)
	}
}

func TestCustomerStore_UpsertReplacesByID(t *testing.T) {
	s := NewMemoryCustomerStore()
	s.Upsert(domain.Customer{ID: "c1", Status: domain.CustomerStatusUnverified})
	s.Upsert(domain.Customer{ID: "c1", Status: domain.CustomerStatusVerified})

	if got := len(s.All()); got != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", got)
	}
	c, _ := s.FindByID("c1")
	if c.Status != domain.CustomerStatusVerified {
		t.Fatalf("expected upserted status, got %q", c.Status)
	}
}

func TestTransferStore_UpdateStatus(t *testing.T) {
	s := NewMemoryTransferStore()
	s.Append(domain.Transfer{ID: "t1", Status: domain.TransferStatusPending})

	if !s.UpdateStatus("t1", domain.TransferStatusProcessed) {
		t.Fatal("expected status update to match t1")
	}
	if s.UpdateStatus("missing", domain.TransferStatusFailed) {
		t.Fatal("expected no match for unknown transfer")
	}
	got, _ := s.FindByID("t1")
	if got.Status != domain.TransferStatusProcessed {
		t.Fatalf("expected processed, got %q", got.Status)
	}
}

func TestWebhookBuffer_EvictsOldestBeyondCapacity(t *testing.T) {
	b := NewMemoryWebhookBuffer()
	for i := 0; i < WebhookBufferCapacity; i++ {
		b.Record(domain.WebhookEvent{ID: fmt.Sprintf("ev-%d", i)})
	}
	if got := len(b.All()); got != WebhookBufferCapacity {
		t.Fatalf("expected buffer at capacity, got %d", got)
	}

	b.Record(domain.WebhookEvent{ID: "ev-newest"})
	events := b.All()
	if len(events) != WebhookBufferCapacity {
		t.Fatalf("buffer exceeded capacity: %d", len(events))
	}
	if events[0].ID != "ev-newest" {
		t.Fatalf("expected newest event first, got %q", events[0].ID)
	}
	for _, ev := range events {
		if ev.ID == "ev-0" {
			t.Fatal("expected oldest event to be evicted")
		}
	}
}

func TestWebhookBuffer_SeenWithinRetainedWindow(t *testing.T) {
	b := NewMemoryWebhookBuffer()
	b.Record(domain.WebhookEvent{ID: "ev-1", Topic: "transfer_completed"})

	if !b.Seen("ev-1", "transfer_completed") {
		t.Fatal("expected recorded event to be seen")
	}
	if b.Seen("ev-1", "transfer_failed") {
		t.Fatal("same id with a different topic must not count as seen")
	}
}
