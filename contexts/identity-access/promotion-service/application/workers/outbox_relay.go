package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "bibliotheque/contexts/identity-access/promotion-service/application"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
)

// OutboxRelay publishes pending promotion events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("promotion outbox list failed",
			"event", "promotion_outbox_list_failed",
			"module", "identity-access/promotion-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event contractsv1.Envelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("promotion outbox decode failed",
				"event", "promotion_outbox_decode_failed",
				"module", "identity-access/promotion-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("promotion outbox publish failed",
				"event", "promotion_outbox_publish_failed",
				"module", "identity-access/promotion-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"topic", topic,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("promotion outbox mark published failed",
				"event", "promotion_outbox_mark_published_failed",
				"module", "identity-access/promotion-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("promotion outbox relay cycle completed",
			"event", "promotion_outbox_relay_completed",
			"module", "identity-access/promotion-service",
			"layer", "worker",
			"published_count", len(pending),
		)
	}
	return nil
}
