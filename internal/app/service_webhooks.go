/**
 * @description
 * Webhook ingestion: every received event is recorded in the ring buffer,
 * and known customer/transfer topics patch the matching local record's
 * status. Processing never returns an error; the HTTP layer acknowledges
 * the provider unconditionally and failures here are swallowed after the
 * event is recorded.
 */
package app

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

// ProcessWebhook records the event and applies any status patch it implies.
// Redeliveries still inside the retained buffer window are recorded but do
// not re-patch local state.
func (s *Service) ProcessWebhook(payload domain.DwollaWebhookPayload) domain.WebhookEvent {
	ev := domain.WebhookEvent{
		ID:         payload.ID,
		Topic:      payload.Topic,
		ResourceID: payload.ResourceID,
		Timestamp:  payload.Timestamp,
	}
	generatedID := ev.ID == ""
	if generatedID {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if len(payload.Links) > 0 {
		ev.Links = make(map[string]string, len(payload.Links))
		for name, link := range payload.Links {
			ev.Links[name] = link.Href
		}
	}

	duplicate := !generatedID && s.webhooks.Seen(ev.ID, ev.Topic)
	s.webhooks.Record(ev)
	if duplicate {
		log.Printf("level=info component=app msg=\"duplicate webhook recorded without patching\" id=%s topic=%s", ev.ID, ev.Topic)
		return ev
	}

	s.applyWebhookPatch(ev)
	return ev
}

// applyWebhookPatch maps a known topic to a local status change. Events for
// resources the registries have never seen leave all records unchanged.
func (s *Service) applyWebhookPatch(ev domain.WebhookEvent) {
	switch {
	case strings.HasPrefix(ev.Topic, "customer_"):
		status, ok := domain.CustomerStatusForTopic(ev.Topic)
		if !ok {
			return
		}
		if !s.customers.UpdateStatus(ev.ResourceID, status) {
			log.Printf("level=debug component=app msg=\"webhook matched no local customer\" resource=%s topic=%s", ev.ResourceID, ev.Topic)
		}
	case strings.HasPrefix(ev.Topic, "transfer_"):
		status, ok := domain.TransferStatusForTopic(ev.Topic)
		if !ok {
			return
		}
		if !s.transfers.UpdateStatus(ev.ResourceID, status) {
			log.Printf("level=debug component=app msg=\"webhook matched no local transfer\" resource=%s topic=%s", ev.ResourceID, ev.Topic)
		}
	}
}

// ListWebhooks returns the retained events, newest first.
func (s *Service) ListWebhooks() []domain.WebhookEvent {
	return s.webhooks.All()
}

// ClearWebhooks empties the local event buffer.
func (s *Service) ClearWebhooks() {
	s.webhooks.Clear()
}
