// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package api is a typed client for the events backend.

# Base URL

ResolveBaseURL appends /api unless the configured URL already ends with it,
and falls back to http://127.0.0.1:8081:

	client := api.New(cfg.APIURL, session, api.WithTimeout(15*time.Second))

# Requests

Every request carries an X-Request-ID and, when the session holds a token,
an Authorization: Bearer header. Responses are wrapped in an envelope:

	{"message": "...", "data": ...}

Only data is decoded into the result. A non-2xx status becomes *api.Error
with the envelope message; Rejected() is true for 4xx.

# Operations

	POST   /auth/login       → Login
	POST   /auth/register    → Register
	POST   /ticket/validate  → ValidateTicket
	POST   /event            → CreateEvent
	GET    /event            → ListEvents
	GET    /event/{id}       → GetEvent
	PUT    /event/{id}       → UpdateEvent
	DELETE /event/{id}       → DeleteEvent
*/
package api
