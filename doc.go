// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the scanstation ticket scanner.

scanstation admits ticket QR payloads from a reader or a demo trigger,
decodes them into a ticket and owner number, validates them against the
events backend and reports each result to the terminal, the log and a
scan journal.

# Starting the Station

	API_URL=http://127.0.0.1:8081 SCAN_EMAIL=gate@example.com SCAN_PASSWORD=... go run .

Or with flags, reading a keyboard-wedge scanner from stdin:

	go run . -a http://events.local -s stdin --email gate@example.com

# Configuration

Settings come from flags, then the environment, then a .env file:

  - API_URL (-a): Events backend; "/api" is appended (default http://127.0.0.1:8081)
  - PORT (-p): Operator HTTP port (default: 3319)
  - DATABASE_TYPE (-t), DATABASE_URL (-d): Journal storage, sqlite or postgres
  - TOKEN_FILE (--token-file): Where the session token is kept
  - SCAN_EMAIL, SCAN_PASSWORD: Log in at startup
  - VALIDATE_TIMEOUT (--validate-timeout): Bound on one validation (default: 12s)
  - SCAN_SOURCE (-s): "stdin" to read payloads line by line
  - SCAN_RATE (--scan-rate): Manual scan requests per second per client

# Architecture

  - scan: Decoder, validator, scan gate, sources and feedback sinks
  - api: Events backend client
  - auth: Operator session and token storage
  - journal: Scan journal on SQL storage
  - handlers: HTTP request handlers (scans, events, session)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Domain, wire and response types
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
