// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth holds the operator session used to authenticate backend calls.

# Sessions

A Session is an explicit object passed to the api client instead of ambient
storage. The client reads Token() on every request and sends it as a bearer
token:

	session := auth.NewSession()
	client := api.New(baseURL, session)

# Persistence

TokenStore persists the session between runs. FileStore writes JSON to a
single file with mode 0600; MemoryStore keeps it in memory:

	store := auth.NewFileStore(cfg.TokenFile)
	if err := session.Load(store); errors.Is(err, auth.ErrNoSession) {
		// log in
	}

Saving a logged-out session clears the store.
*/
package auth
