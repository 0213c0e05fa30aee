package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtolk/amocrm-radicalmart/internal/leadlink"
	"github.com/webtolk/amocrm-radicalmart/pkg/types"
)

type stubLinker struct {
	links map[int64]*leadlink.Link
	err   error
}

func (s stubLinker) Link(_ context.Context, orderID int64) (*leadlink.Link, error) {
	return s.links[orderID], s.err
}

func (s stubLinker) Render(ctx context.Context, orderID int64) (template.HTML, error) {
	link, err := s.Link(ctx, orderID)
	if err != nil || link == nil {
		return "", err
	}
	return leadlink.RenderLink(*link)
}

func newLinkRouter(linker LeadLinker) http.Handler {
	r := chi.NewRouter()
	r.Get("/orders/{orderId}/amocrm-lead", AdminOrderLeadLink(linker, nil))
	r.Get("/orders/{orderId}/amocrm-lead/field", AdminOrderLeadField(linker, nil))
	r.Get("/forms/{formName}/extension", AdminFormExtension())
	return r
}

var sampleLink = &leadlink.Link{OrderID: 42, LeadID: 777, URL: "https://a.amocrm.ru/leads/detail/777", Text: "AmoCRM lead #777"}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAdminOrderLeadLinkJSON(t *testing.T) {
	h := newLinkRouter(stubLinker{links: map[int64]*leadlink.Link{42: sampleLink}})

	rec := get(h, "/orders/42/amocrm-lead")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data types.LeadLink `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(777), body.Data.LeadID)
	assert.Equal(t, `<a href="https://a.amocrm.ru/leads/detail/777" target="_blank">AmoCRM lead #777</a>`, body.Data.HTML)
}

func TestAdminOrderLeadLinkMissingIsNull(t *testing.T) {
	rec := get(newLinkRouter(stubLinker{}), "/orders/1/amocrm-lead")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":null}`, rec.Body.String())
}

func TestAdminOrderLeadLinkRejectsBadID(t *testing.T) {
	rec := get(newLinkRouter(stubLinker{}), "/orders/abc/amocrm-lead")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminOrderLeadLinkPropagatesErrors(t *testing.T) {
	rec := get(newLinkRouter(stubLinker{err: errors.New("db down")}), "/orders/1/amocrm-lead")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminOrderLeadField(t *testing.T) {
	h := newLinkRouter(stubLinker{links: map[int64]*leadlink.Link{42: sampleLink}})

	rec := get(h, "/orders/42/amocrm-lead/field")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), `target="_blank"`)

	rec = get(h, "/orders/7/amocrm-lead/field")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAdminFormExtension(t *testing.T) {
	h := newLinkRouter(stubLinker{})

	rec := get(h, "/forms/com_radicalmart.order/extension")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "amocrmleadlink")

	rec = get(h, "/forms/com_radicalmart.product/extension")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
