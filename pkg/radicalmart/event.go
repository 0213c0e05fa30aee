package radicalmart

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
)

// EnvelopeVersion is the event envelope version this service understands.
const EnvelopeVersion = 1

type Kind string

const (
	KindOrderCreate       Kind = "order.create"
	KindOrderChangeStatus Kind = "order.change_status"
)

// Source identifies the host component that raised an event.
type Source string

const (
	SourceRadicalMart Source = "radicalmart"
	SourceExpress     Source = "radicalmart_express"
)

// ErrNoOrder is returned when an event carries no order payload.
var ErrNoOrder = errors.New("event has no order")

// Event is the envelope delivered by the webhook and the orders subscription.
type Event struct {
	Version    int               `json:"version" validate:"omitempty,eq=1"`
	EventID    string            `json:"event_id,omitempty" validate:"omitempty,uuid"`
	Type       string            `json:"type" validate:"required"`
	Source     Source            `json:"source,omitempty" validate:"omitempty,oneof=radicalmart radicalmart_express"`
	OccurredAt time.Time         `json:"occurred_at"`
	Cookies    map[string]string `json:"cookies,omitempty"`
	Order      json.RawMessage   `json:"order,omitempty"`
}

// ParseKind normalizes an event type. Both the bare kinds and the forms prefixed
// with a host component name are recognized; anything else reports false.
func ParseKind(eventType string) (Kind, Source, bool) {
	t := strings.TrimSpace(eventType)
	source := Source("")
	for _, prefix := range []Source{SourceExpress, SourceRadicalMart} {
		if rest, ok := strings.CutPrefix(t, string(prefix)+"."); ok {
			source = prefix
			t = rest
			break
		}
	}
	switch Kind(t) {
	case KindOrderCreate, KindOrderChangeStatus:
		return Kind(t), source, true
	}
	return "", "", false
}

// Classify resolves the kind and source of the event. The source falls back to the
// envelope field and then to RadicalMart itself.
func (e Event) Classify() (Kind, Source, bool) {
	kind, source, ok := ParseKind(e.Type)
	if !ok {
		return "", "", false
	}
	if source == "" {
		source = e.Source
	}
	if source == "" {
		source = SourceRadicalMart
	}
	return kind, source, true
}

// Validate checks the envelope fields.
func (e Event) Validate() error {
	return validateStruct(e)
}

// DecodeOrder decodes and validates the order payload of the event.
func (e Event) DecodeOrder() (*Order, error) {
	return DecodeOrder(e.Order)
}

// DecodeOrder decodes and validates an order. A missing or null payload returns ErrNoOrder.
func DecodeOrder(raw json.RawMessage) (*Order, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNoOrder
	}
	if trimmed[0] != '{' {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must be an object")
	}
	var order Order
	if err := json.Unmarshal(trimmed, &order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order payload")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &order, nil
}

// Validate checks the order fields required by the bridge.
func (o Order) Validate() error {
	return validateStruct(o)
}
