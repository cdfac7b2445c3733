package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"suremdm-property-sync/internal/common/logging"
	"suremdm-property-sync/internal/handlers"
	"suremdm-property-sync/internal/properties"
	"suremdm-property-sync/internal/suremdm"
)

type nopProvider struct{}

func (nopProvider) GetDevice(ctx context.Context, deviceID string) (*suremdm.DeviceRecord, error) {
	return &suremdm.DeviceRecord{}, nil
}

func (nopProvider) UpdateProperties(ctx context.Context, deviceID string, matches []properties.Row) (suremdm.UpdateResult, error) {
	return "OK", nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	store := properties.NewStoreWithLoader(func() ([]properties.Row, error) {
		return []properties.Row{}, nil
	}, logging.NewDefaultLogger())
	h := handlers.New(store, nopProvider{}, logging.NewDefaultLogger())
	return newRouter(h)
}

func TestNewRouterWebhookAcceptsAnyMethod(t *testing.T) {
	router := testRouter(t)

	// The MDM platform can be configured with any delivery method, so the
	// webhook route must never answer 405.
	for _, method := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead,
	} {
		req := httptest.NewRequest(method, "/webhook", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code,
			"method %s should reach the webhook handler", method)
		assert.NotEqual(t, http.StatusNotFound, rec.Code,
			"method %s should match the webhook route", method)
	}
}

func TestNewRouterHealthIsGetOnly(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
