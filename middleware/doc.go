// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Each request gets an X-Request-ID (kept when the caller sends one) that is
echoed in the response and attached to every log line. Completion is logged
at info level with the status code and duration_ms; the start line is debug.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization and X-Request-ID. Preflight requests are answered
with 204 and never reach the wrapped handler.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (capped at 64 KiB):

	var req models.ScanRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used to key per-client rate limits.

# Rate Limiting

RateLimiter keeps a token bucket (golang.org/x/time/rate) per client IP and
answers 429 Too Many Requests once a client runs dry:

	limiter := middleware.NewRateLimiter(cfg.ScanRate, 3)
	mux.HandleFunc("POST /scans", middleware.WithLogging(limiter.Limit(h.Submit)))
*/
package middleware
