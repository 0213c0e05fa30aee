package leadsync

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
	"github.com/webtolk/amocrm-radicalmart/pkg/idempotency"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/radicalmart"
)

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// Consumer feeds order events from the orders subscription into the lead sync.
type Consumer struct {
	handler      Handler
	subscription receiver
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the orders subscription consumer.
func NewConsumer(handler Handler, subscription receiver, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("lead sync handler required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		handler:      handler,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := strings.TrimSpace(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	var evt radicalmart.Event
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}
	if eventType != "" {
		evt.Type = eventType
	}
	if err := evt.Validate(); err != nil {
		c.logg.Error(logCtx, "invalid envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(evt.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, idempotency.ConsumerWorker, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if _, err := c.handler.HandleEvent(ctx, evt); err != nil {
		if !pkgerrors.IsRetryable(err) {
			return processResult{ack: true}
		}
		_ = c.idempotency.Release(ctx, idempotency.ConsumerWorker, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}
