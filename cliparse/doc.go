// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p, --port             Server port (default: 3319)
	-a, --api-url          Events backend URL
	-d, --database-url     Journal database URL or sqlite file
	-t, --database-type    sqlite or postgres (default: sqlite)
	    --token-file       Session token file
	    --email            Operator email for login at startup
	    --password         Operator password
	    --validate-timeout Timeout for one validation (default: 12s)
	-s, --source           stdin or none (default: stdin)
	    --demo-payload     Payload emitted by the demo source
	    --scan-rate        Max manual scan requests per second (default: 5)
	    --env-file         Environment file (default: .env)
	    --log-level        debug, info, warn, error

# Environment Variables

The env file is loaded first; variables already set in the environment are
not overridden. Flags fall back to environment variables:

	PORT                → --port
	API_URL             → --api-url (then EXPO_PUBLIC_API_URL)
	DATABASE_URL        → --database-url
	DATABASE_TYPE       → --database-type
	TOKEN_FILE          → --token-file
	SCAN_EMAIL          → --email
	SCAN_PASSWORD       → --password
	VALIDATE_TIMEOUT    → --validate-timeout
	SCAN_SOURCE         → --source
	DEMO_PAYLOAD        → --demo-payload
	SCAN_RATE           → --scan-rate
	LOG_LEVEL           → --log-level

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - PORT, VALIDATE_TIMEOUT or SCAN_RATE cannot be parsed
  - the database type or scan source is unknown
  - postgres is selected without a DATABASE_URL
  - an email is given without a password
*/
package cliparse
