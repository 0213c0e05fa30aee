package controllers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/webtolk/amocrm-radicalmart/api/responses"
	"github.com/webtolk/amocrm-radicalmart/api/validators"
	"github.com/webtolk/amocrm-radicalmart/internal/leadsync"
	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
	"github.com/webtolk/amocrm-radicalmart/pkg/idempotency"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/radicalmart"
	"github.com/webtolk/amocrm-radicalmart/pkg/types"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "X-RadicalMart-Signature"

// EventGuard deduplicates webhook deliveries by event id.
type EventGuard interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Release(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// RadicalMartEvents receives order events posted by the shop.
func RadicalMartEvents(handler leadsync.Handler, secret string, guard EventGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if handler == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead sync unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := validators.ReadBody(w, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sig := r.Header.Get(SignatureHeader)
		if sig == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "signature missing"))
			return
		}
		if !validateSignature(payload, secret, sig) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid signature"))
			return
		}

		var evt radicalmart.Event
		if err := validators.DecodeJSON(payload, &evt); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if len(evt.Cookies) == 0 {
			evt.Cookies = requestCookies(r)
		}

		kind, _, _ := evt.Classify()
		ack := types.EventAck{EventID: evt.EventID, Kind: string(kind)}

		var eventID uuid.UUID
		if evt.EventID != "" {
			eventID, err = uuid.Parse(evt.EventID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event id"))
				return
			}
			already, err := guard.CheckAndMarkProcessed(ctx, idempotency.ConsumerWebhook, eventID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if already {
				ack.Duplicate = true
				responses.WriteSuccess(w, ack)
				return
			}
		}

		result, err := handler.HandleEvent(ctx, evt)
		if err != nil {
			if eventID != uuid.Nil {
				_ = guard.Release(ctx, idempotency.ConsumerWebhook, eventID)
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ack.Handled = result.Handled()
		responses.WriteSuccess(w, ack)
	}
}

func validateSignature(payload []byte, secret, header string) bool {
	header = strings.TrimPrefix(strings.TrimSpace(header), "sha256=")
	if header == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(header)))
}

func requestCookies(r *http.Request) map[string]string {
	cookies := r.Cookies()
	if len(cookies) == 0 {
		return nil
	}
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		out[c.Name] = c.Value
	}
	return out
}
