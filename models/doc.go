// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, wire, request and response types.

# Domain Types

  - TicketIdentity: ticket and owner ids decoded from a QR payload
  - Feedback: outcome of one admitted scan (success, failure, decode_error)
  - GateStatus: snapshot of the scan gate
  - ScanRecord, ScanStats: scan journal rows and counters

# Backend Types

Types exchanged with the events backend, in its camelCase wire format:

  - User, Event, EventRequest
  - Credentials, AuthResult
  - ValidateTicketRequest

# Request and Response Types

  - ScanRequest: payload
  - ScanResponse: admitted, status
  - DemoResponse: queued
  - SessionResponse: logged_in, user
  - HistoryResponse: records
  - ErrorResponse: error, message

# Constants

Feedback kinds:

	KindSuccess     = "success"
	KindFailure     = "failure"
	KindDecodeError = "decode_error"

Failure reasons:

	ReasonNetworkError   = "network_error"
	ReasonRemoteRejected = "remote_rejected"

Gate states:

	StateArmed  = "armed"
	StateLocked = "locked"
*/
package models
