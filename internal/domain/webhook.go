/**
 * @description
 * This file defines the record kept for each inbound webhook event and the
 * topic-to-status tables used to patch local registries when Dwolla reports
 * a customer or transfer state change.
 */
package domain

import "time"

// WebhookEvent is one received provider event, retained in a fixed-capacity
// ring buffer (newest first) purely for display in the dashboard.
type WebhookEvent struct {
	ID         string            `json:"id"`
	Topic      string            `json:"topic"`
	ResourceID string            `json:"resourceId"`
	Timestamp  time.Time         `json:"timestamp"`
	Links      map[string]string `json:"_links,omitempty"`
}

// CustomerStatusForTopic resolves a customer_* webhook topic to the local
// status it implies. The second return is false for topics that carry no
// status change (e.g. customer_created).
func CustomerStatusForTopic(topic string) (string, bool) {
	switch topic {
	case "customer_verified":
		return CustomerStatusVerified, true
	case "customer_suspended":
		return CustomerStatusSuspended, true
	case "customer_reverification_needed":
		return CustomerStatusRetry, true
	case "customer_verification_document_needed":
		return CustomerStatusDocument, true
	default:
		return "", false
	}
}

// TransferStatusForTopic resolves a transfer_* webhook topic to the local
// status it implies.
func TransferStatusForTopic(topic string) (string, bool) {
	switch topic {
	case "transfer_created":
		return TransferStatusPending, true
	case "transfer_completed":
		return TransferStatusProcessed, true
	case "transfer_cancelled":
		return TransferStatusCancelled, true
	case "transfer_failed":
		return TransferStatusFailed, true
	default:
		return "", false
	}
}
