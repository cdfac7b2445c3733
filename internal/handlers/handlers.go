// Package handlers implements the HTTP surface of the property sync
// service: the webhook orchestrator and the health endpoint.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"suremdm-property-sync/internal/common/logging"
	"suremdm-property-sync/internal/properties"
	"suremdm-property-sync/internal/suremdm"
)

// DeviceProvider is the slice of the SureMDM client the orchestrator uses.
type DeviceProvider interface {
	GetDevice(ctx context.Context, deviceID string) (*suremdm.DeviceRecord, error)
	UpdateProperties(ctx context.Context, deviceID string, matches []properties.Row) (suremdm.UpdateResult, error)
}

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	store    *properties.Store
	provider DeviceProvider
	logger   logging.Logger
}

// New creates the handler set.
func New(store *properties.Store, provider DeviceProvider, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes a JSON error response with the given status
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
