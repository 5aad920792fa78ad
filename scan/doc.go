// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scan implements the ticket scan workflow: decode a QR payload,
validate it with the backend, and report the result.

# Decoding

Decode turns "ticket:<id>,owner:<id>" into a TicketIdentity. Fields are
matched by key, so either order is accepted:

	id, err := scan.Decode("owner:5,ticket:10") // {TicketID: 10, OwnerID: 5}

Errors wrap ErrMalformedPayload (wrong shape, unknown or duplicate key) or
ErrInvalidIdentity (value is not a non-negative base-10 integer).

# Validation

RemoteValidator makes one backend call per scan, without retries or caching.
A 4xx response is ErrRemoteRejected; transport errors, timeouts and 5xx
responses are ErrNetwork.

# Gate

Gate admits one scan at a time:

	armed  + scan          → locked, decode and validate in the background
	locked + scan          → dropped
	decode error           → decode_error feedback, armed
	validation failure     → failure feedback, armed
	validation success     → success feedback, locked until Acknowledge

Each validation is bounded by a timeout (DefaultTimeout) that forces a
network failure. Panics during decode or validate are recovered and
reported as network failures. Deactivate cancels the in-flight validation
and discards its result; Activate re-arms the gate.

# Sources and Sinks

Sources produce raw payloads: ReaderSource reads lines from a hand-held or
camera reader, DemoSource emits a fixed payload on Trigger. Pump connects a
source to a gate:

	go scan.Pump(ctx, gate, scan.NewReaderSource(os.Stdin))

Sinks receive feedback: LogSink, WriterSink, MultiSink, and the scan journal.
*/
package scan
