// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the scan station.

# Handler Types

Each handler is a struct holding the components it serves:

  - ScanHandler: gate control, demo scans and the scan journal
  - EventHandler: event management, proxied to the events backend
  - SessionHandler: operator login, registration and logout

Handlers are created via constructor functions:

	scanHandler := handlers.NewScanHandler(gate, demo, journal)

# Scan Flow

	POST /scans       → Submit (202 admitted, 409 gate locked)
	POST /scans/demo  → Demo (queues the demo ticket)
	POST /scans/ack   → Acknowledge (re-arms after a success)

Submit only reports whether the gate admitted the payload. The outcome
arrives later through the feedback sinks and shows up in GET /scans/status
and GET /scans/history.

# Backend Errors

Event and session handlers pass 4xx answers from the backend through with
the backend's message. Transport failures and 5xx answers become 502.

# Response Format

All handlers return JSON responses via middleware.JSONResponse.
Errors use middleware.ErrorResponse with consistent structure:

	{"error": "Conflict", "message": "Nothing to acknowledge"}
*/
package handlers
