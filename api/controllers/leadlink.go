package controllers

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webtolk/amocrm-radicalmart/api/responses"
	"github.com/webtolk/amocrm-radicalmart/internal/leadlink"
	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/types"
)

// LeadLinker resolves and renders the CRM lead link of an order.
type LeadLinker interface {
	Link(ctx context.Context, orderID int64) (*leadlink.Link, error)
	Render(ctx context.Context, orderID int64) (template.HTML, error)
}

// AdminOrderLeadLink returns the CRM lead linked to an order, or null.
func AdminOrderLeadLink(linker LeadLinker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		link, err := linker.Link(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if link == nil {
			responses.WriteSuccess(w, nil)
			return
		}

		html, err := leadlink.RenderLink(*link)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.LeadLink{
			OrderID: link.OrderID,
			LeadID:  link.LeadID,
			URL:     link.URL,
			HTML:    string(html),
		})
	}
}

// AdminOrderLeadField renders the lead link field markup for the order edit screen.
func AdminOrderLeadField(linker LeadLinker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		html, err := linker.Render(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}

// AdminFormExtension serves the form fragment that adds the lead link field.
func AdminFormExtension() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fragment := leadlink.FormExtension(chi.URLParam(r, "formName"))
		if fragment == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		responses.WriteRaw(w, http.StatusOK, "application/xml; charset=utf-8", fragment)
	}
}

func orderIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "orderId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id").WithDetails(map[string]string{"orderId": raw})
	}
	return id, nil
}
