// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package journal keeps an audit trail of scan outcomes in the scan_record
// table. A Journal is a scan.Sink, so it can sit beside the log and terminal
// sinks behind a scan.MultiSink.
package journal
