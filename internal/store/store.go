/**
 * @description
 * This file defines the registry interfaces used by the application layer.
 * The registries are display caches over provider state: every one of them
 * can be discarded and rebuilt from Dwolla at any time, and all of them are
 * cleared when credentials are reconfigured.
 *
 * @notes
 * - Stores are injected so the memory backing can be swapped without
 *   touching the flows.
 * - Implementations must serialize read-modify-write sequences; handlers
 *   run concurrently under net/http.
 */
package store

import "github.com/paylab/dwolla-dashboard/internal/domain"

// CustomerStore is the local customer registry. The duplicate lookups back
// the advisory email/phone check at creation time only; Dwolla stays the
// source of truth.
type CustomerStore interface {
	Upsert(c domain.Customer)
	FindByID(id string) (domain.Customer, bool)
	FindByEmail(email string) (domain.Customer, bool)
	FindByPhone(phone string) (domain.Customer, bool)
	UpdateStatus(id, status string) bool
	All() []domain.Customer
	ReplaceAll(customers []domain.Customer)
	Clear()
}

// TransferStore is the local transfer registry. Records are append-only;
// webhook events and refreshes patch status in place.
type TransferStore interface {
	Append(t domain.Transfer)
	FindByID(id string) (domain.Transfer, bool)
	UpdateStatus(id, status string) bool
	All() []domain.Transfer
	ReplaceAll(transfers []domain.Transfer)
	Clear()
}

// WebhookBuffer retains received webhook events newest-first up to a fixed
// capacity, evicting the oldest on overflow.
type WebhookBuffer interface {
	Record(ev domain.WebhookEvent)
	Seen(id, topic string) bool
	All() []domain.WebhookEvent
	Clear()
}
