package leadsync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtolk/amocrm-radicalmart/internal/leads"
	"github.com/webtolk/amocrm-radicalmart/pkg/amocrm"
	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
	"github.com/webtolk/amocrm-radicalmart/pkg/i18n"
	"github.com/webtolk/amocrm-radicalmart/pkg/idempotency"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/radicalmart"
)

const testEventID = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

type memoryStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (m *memoryStore) Get(context.Context, string) (string, error) { return "", nil }

func (m *memoryStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string { return scope + ":" + id }

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.keys, k)
	}
	return nil
}

type stubHandler struct {
	err    error
	events []radicalmart.Event
}

func (s *stubHandler) HandleEvent(_ context.Context, evt radicalmart.Event) (Result, error) {
	s.events = append(s.events, evt)
	return Result{}, s.err
}

type noopReceiver struct{}

func (noopReceiver) Receive(context.Context, func(context.Context, *pubsub.Message)) error {
	return nil
}

func newTestConsumer(t *testing.T, handler Handler) (*Consumer, *memoryStore) {
	t.Helper()
	store := &memoryStore{}
	manager, err := idempotency.NewManager(store, time.Hour)
	require.NoError(t, err)
	consumer, err := NewConsumer(handler, noopReceiver{}, manager, logger.Nop())
	require.NoError(t, err)
	return consumer, store
}

func message(data string, attrs map[string]string) *pubsub.Message {
	return &pubsub.Message{ID: "m-1", Data: []byte(data), Attributes: attrs}
}

func TestConsumerHandlesEventOnce(t *testing.T) {
	handler := &stubHandler{}
	consumer, _ := newTestConsumer(t, handler)
	msg := message(`{"event_id":"`+testEventID+`","type":"order.create","order":{"id":1}}`, nil)

	assert.Equal(t, processResult{ack: true}, consumer.process(context.Background(), msg))
	assert.Equal(t, processResult{ack: true}, consumer.process(context.Background(), msg))
	require.Len(t, handler.events, 1)
	assert.Equal(t, "order.create", handler.events[0].Type)
}

func TestConsumerAttributeOverridesType(t *testing.T) {
	handler := &stubHandler{}
	consumer, _ := newTestConsumer(t, handler)
	msg := message(`{"event_id":"`+testEventID+`","type":"order.create"}`, map[string]string{"event_type": "order.change_status"})

	consumer.process(context.Background(), msg)
	require.Len(t, handler.events, 1)
	assert.Equal(t, "order.change_status", handler.events[0].Type)
}

func TestConsumerAcksUndecodableMessages(t *testing.T) {
	handler := &stubHandler{}
	consumer, _ := newTestConsumer(t, handler)

	for _, data := range []string{
		`not json`,
		`{"type":"order.create"}`,
		`{"event_id":"nope","type":"order.create"}`,
		`{"event_id":"` + testEventID + `"}`,
	} {
		assert.Equal(t, processResult{ack: true}, consumer.process(context.Background(), message(data, nil)), data)
	}
	assert.Empty(t, handler.events)
}

func TestConsumerNacksRetryableFailuresAndReleasesKey(t *testing.T) {
	handler := &stubHandler{err: pkgerrors.New(pkgerrors.CodeDependency, "amocrm down")}
	consumer, store := newTestConsumer(t, handler)
	msg := message(`{"event_id":"`+testEventID+`","type":"order.create"}`, nil)

	assert.Equal(t, processResult{nack: true}, consumer.process(context.Background(), msg))
	assert.Empty(t, store.keys)

	handler.err = nil
	assert.Equal(t, processResult{ack: true}, consumer.process(context.Background(), msg))
	assert.Len(t, handler.events, 2)
}

func TestConsumerAcksPermanentFailures(t *testing.T) {
	handler := &stubHandler{err: pkgerrors.New(pkgerrors.CodeValidation, "bad order")}
	consumer, store := newTestConsumer(t, handler)
	msg := message(`{"event_id":"`+testEventID+`","type":"order.create"}`, nil)

	assert.Equal(t, processResult{ack: true}, consumer.process(context.Background(), msg))
	assert.Len(t, store.keys, 1)
}

func TestConsumerAcksLeadRejectedByCRM(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"invalid pipeline_id"}`))
	}))
	t.Cleanup(srv.Close)

	crm, err := amocrm.NewClient("token", amocrm.WithBaseURL(srv.URL), amocrm.WithRetries(2, time.Millisecond))
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		CRM:       crm,
		Relations: &fakeRelations{},
		Mapper:    leads.NewMapper(i18n.MustNew("en")),
		Logger:    logger.Nop(),
	})
	require.NoError(t, err)

	consumer, store := newTestConsumer(t, svc)
	msg := message(`{"event_id":"`+testEventID+`","type":"order.create","order":`+completeOrder+`}`, nil)

	assert.Equal(t, processResult{ack: true}, consumer.process(context.Background(), msg))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Len(t, store.keys, 1)
}

func TestNewConsumerValidation(t *testing.T) {
	_, err := NewConsumer(nil, noopReceiver{}, nil, logger.Nop())
	require.EqualError(t, err, "lead sync handler required")
}
