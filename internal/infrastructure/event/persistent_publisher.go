package event

import (
	"context"
	"fmt"

	"github.com/orderhub/backend/internal/domain/shared"
)

// PersistentPublisher implements shared.EventPublisher on top of the
// outbox table. Events survive a crash between save and delivery; the
// outbox processor picks them up and forwards them to the bus.
type PersistentPublisher struct {
	repo       shared.OutboxRepository
	serializer *EventSerializer
}

// NewPersistentPublisher creates a new PersistentPublisher
func NewPersistentPublisher(repo shared.OutboxRepository, serializer *EventSerializer) *PersistentPublisher {
	return &PersistentPublisher{repo: repo, serializer: serializer}
}

// Publish stores the events as pending outbox entries, one entry per
// subscribed consumer. Events without a consumer are dropped.
func (p *PersistentPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, ev := range events {
		consumers := ConsumersFor(ev.EventType())
		if len(consumers) == 0 {
			continue
		}
		payload, err := p.serializer.Serialize(ev)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", ev.EventType(), err)
		}
		for _, consumer := range consumers {
			entries = append(entries, shared.NewOutboxEntry(ev, payload, consumer))
		}
	}

	return p.repo.Save(ctx, entries...)
}

var _ shared.EventPublisher = (*PersistentPublisher)(nil)
