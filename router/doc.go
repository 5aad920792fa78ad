// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the scan station.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{Gate: gate, Demo: demo, ...})

# Endpoints

Health:

	GET /health

Scanning:

	POST /scans            - Offer a payload to the gate (rate limited)
	POST /scans/demo       - Scan the demo ticket (rate limited)
	POST /scans/ack        - Acknowledge a success, re-arming the gate
	POST /scans/activate   - Re-arm, as when the scan screen is shown
	POST /scans/deactivate - Stop scanning, discarding in-flight results
	GET  /scans/status     - Gate state and last feedback
	GET  /scans/history    - Journal entries, newest first
	GET  /scans/stats      - Journal counts per kind

Events (proxied to the backend):

	GET    /events
	POST   /events
	GET    /events/{id}
	PUT    /events/{id}
	DELETE /events/{id}

Operator session:

	GET    /session - Login state
	POST   /session - Log in and persist the token
	POST   /session/register - Create an operator account and log in
	DELETE /session - Log out

# Handler Initialization

The router creates handler instances with dependency injection:

	scanHandler := handlers.NewScanHandler(d.Gate, d.Demo, d.Journal)
	eventHandler := handlers.NewEventHandler(d.Client)
	sessionHandler := handlers.NewSessionHandler(d.Client, d.Store)
*/
package router
