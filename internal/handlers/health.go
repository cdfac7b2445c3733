package handlers

import (
	"net/http"
	"time"
)

// HealthCheck reports process health and the dataset cache state. It never
// triggers a dataset load itself.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"dataset_ready": h.store.Ready(),
		"dataset_rows":  h.store.Len(),
		"timestamp":     time.Now().UTC(),
	})
}
