// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/scanstation/journal"
	"github.com/danielhkuo/scanstation/middleware"
	"github.com/danielhkuo/scanstation/models"
	"github.com/danielhkuo/scanstation/scan"
)

type ScanHandler struct {
	gate    *scan.Gate
	demo    *scan.DemoSource
	journal *journal.Journal
}

func NewScanHandler(gate *scan.Gate, demo *scan.DemoSource, j *journal.Journal) *ScanHandler {
	return &ScanHandler{gate: gate, demo: demo, journal: j}
}

// Submit handles POST /scans
// Offers a manually entered payload to the gate
func (h *ScanHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	payload := strings.TrimSpace(req.Payload)
	if payload == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "payload is required")
		return
	}

	admitted := h.gate.Scan(payload)
	status := http.StatusAccepted
	if !admitted {
		status = http.StatusConflict
	}

	middleware.JSONResponse(w, status, models.ScanResponse{
		Admitted: admitted,
		Status:   h.gate.Status(),
	})
}

// Demo handles POST /scans/demo
// Queues one scan of the demo ticket on the demo source
func (h *ScanHandler) Demo(w http.ResponseWriter, r *http.Request) {
	if !h.demo.Trigger() {
		middleware.ErrorResponse(w, http.StatusConflict, "A demo scan is already pending")
		return
	}
	middleware.JSONResponse(w, http.StatusAccepted, models.DemoResponse{Queued: true})
}

// Acknowledge handles POST /scans/ack
// Re-arms the gate after the operator has seen a success
func (h *ScanHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if !h.gate.Acknowledge() {
		middleware.ErrorResponse(w, http.StatusConflict, "Nothing to acknowledge")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.gate.Status())
}

// Activate handles POST /scans/activate
func (h *ScanHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.gate.Activate()
	slog.Info("scan gate activated")
	middleware.JSONResponse(w, http.StatusOK, h.gate.Status())
}

// Deactivate handles POST /scans/deactivate
func (h *ScanHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.gate.Deactivate()
	slog.Info("scan gate deactivated")
	middleware.JSONResponse(w, http.StatusOK, h.gate.Status())
}

// Status handles GET /scans/status
func (h *ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.gate.Status())
}

// History handles GET /scans/history
// Returns journal entries newest first; ?limit=n
func (h *ScanHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := journal.DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("failed to read scan history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range records {
		records[i].Age = humanize.Time(records[i].CreatedAt)
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{Records: records})
}

// Stats handles GET /scans/stats
func (h *ScanHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.journal.Stats(r.Context())
	if err != nil {
		slog.Error("failed to count scans", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}
