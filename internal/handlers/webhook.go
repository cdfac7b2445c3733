package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"suremdm-property-sync/internal/common/errors"
	"suremdm-property-sync/internal/common/logging"
	"suremdm-property-sync/internal/properties"
	"suremdm-property-sync/internal/suremdm"
)

const livenessMessage = "SureMDM property sync endpoint is alive"

// WebhookEvent is the inbound payload. Only EventType and DeviceId are
// contractually required; everything else is opaque passthrough echoed in
// the response.
type WebhookEvent map[string]interface{}

func (e WebhookEvent) stringField(key string) string {
	if value, ok := e[key].(string); ok {
		return value
	}
	return ""
}

// syncResponse is the composed 200 body for a processed event.
type syncResponse struct {
	Event            WebhookEvent         `json:"event"`
	DeviceID         string               `json:"deviceId"`
	Device           suremdm.DeviceView   `json:"device"`
	CustomProperties []properties.Row     `json:"customProperties"`
	UpdateResult     suremdm.UpdateResult `json:"updateResult"`
	Timestamp        time.Time            `json:"timestamp"`
}

// HandleWebhook processes one SureMDM device lifecycle event: resolve the
// device, match its serial number against the property dataset, and push
// the matched properties back to the provider.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.WithContext(ctx)

	// The dataset cache resolves on first use; every request waits on the
	// same load.
	dataset := h.store.Rows(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	// An empty body is the provider's connectivity probe, not an error.
	if len(bytes.TrimSpace(body)) == 0 {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(livenessMessage))
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON payload: %v", err))
		return
	}

	eventType := event.stringField("EventType")
	deviceID := event.stringField("DeviceId")
	if eventType == "" || deviceID == "" {
		writeError(w, http.StatusBadRequest, "EventType and DeviceId are required")
		return
	}

	logger = logger.WithFields(
		logging.Field{Key: "event_type", Value: eventType},
		logging.Field{Key: "device_id", Value: deviceID},
	)
	logger.Info("Processing device event")

	device, status, errMsg := h.resolveDevice(ctx, logger, eventType, deviceID)
	if errMsg != "" {
		writeError(w, status, errMsg)
		return
	}

	if device.SerialNumber == "" {
		writeError(w, http.StatusBadRequest, "no serial number available, cannot look up properties")
		return
	}

	matches := properties.Match(dataset, device.SerialNumber)
	if len(matches) == 0 {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("no custom properties found for serial number %s", device.SerialNumber))
		return
	}

	result, err := h.provider.UpdateProperties(ctx, deviceID, matches)
	if err != nil {
		logger.Error("Property update failed", err)
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to update properties: %v", err))
		return
	}

	logger.Info("Device properties updated",
		logging.Field{Key: "serial_number", Value: device.SerialNumber},
		logging.Field{Key: "properties", Value: len(matches)},
	)

	writeJSON(w, http.StatusOK, syncResponse{
		Event:            event,
		DeviceID:         deviceID,
		Device:           device.View(),
		CustomProperties: matches,
		UpdateResult:     result,
		Timestamp:        time.Now().UTC(),
	})
}

// resolveDevice runs the detail-fetch stage. Deletion events short-circuit
// to a placeholder record; a reachable provider with no such device is a
// hard 400; an unreachable provider degrades to an all-defaults record and
// the flow continues.
func (h *Handlers) resolveDevice(ctx context.Context, logger logging.Logger, eventType, deviceID string) (suremdm.DeviceRecord, int, string) {
	if suremdm.IsDeletionEvent(eventType) {
		logger.Info("Deletion event, skipping device detail lookup")
		return suremdm.DeletedDeviceRecord(), 0, ""
	}

	device, err := h.provider.GetDevice(ctx, deviceID)
	if err == nil {
		return *device, 0, ""
	}

	if errors.IsType(err, errors.ErrTypeNotFound) {
		return suremdm.DeviceRecord{}, http.StatusBadRequest, "device not found"
	}

	logger.Warn("Device detail lookup failed, continuing with default values",
		logging.Field{Key: "error", Value: err.Error()})
	return suremdm.DeviceRecord{}, 0, ""
}
