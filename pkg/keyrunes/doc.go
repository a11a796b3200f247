/*
Package keyrunes provides a client SDK for the Keyrunes authentication and
authorization service.

# Overview

The package is organized around three types:

  - Client: issues remote calls (login, register, user lookup, group checks)
    over HTTP+JSON against a Keyrunes deployment.
  - TokenStore: holds the single current credential for a client instance,
    for single-caller usage.
  - Gate: per-request authentication and authorization checks built on
    Client, for use behind HTTP middleware.

Create a Client with the deployment's base address:

	client, err := keyrunes.New("https://keyrunes.example.com")
	if err != nil {
		log.Fatal(err) // invalid_url
	}

	// Register and log in.
	user, err := client.Register(ctx, "john", "john@example.com", "password123", "")
	cred, err := client.Login(ctx, "john@example.com", "password123", "")

Login stores the returned credential in the client's TokenStore, so
store-backed operations are immediately authenticated:

	me, err := client.CurrentUser(ctx)
	ok, err := client.HasGroup(ctx, me.ID, "staff")

# Gates

A Gate resolves inbound Authorization headers to Principals and enforces
group membership with a live remote query per request:

	gate := keyrunes.NewGate(client)

	principal, err := gate.Authenticate(ctx, r.Header.Get("Authorization"))
	grant, err := gate.RequireGroup(ctx, r.Header.Get("Authorization"), "editors")
	grant, err := gate.RequireAdmin(ctx, r.Header.Get("Authorization"))

Gates thread the extracted credential explicitly into each remote call and
never touch the shared TokenStore. A Client shared by many concurrent
request handlers therefore never mixes up credentials between requests. The
store remains available for single-caller usage (CLIs, one-user workers).

The httpx package adapts these gates to net/http middleware.

# Error Handling

Every failure is a typed *Error carrying a Kind:

	_, err := client.CurrentUser(ctx)
	switch keyrunes.KindOf(err) {
	case keyrunes.KindInvalidToken:
		// no credential was available; no network call was made
	case keyrunes.KindAuthentication:
		// the service rejected the credential (401)
	case keyrunes.KindNetwork:
		// connect failure or timeout
	}

HTTP-sourced errors carry the upstream status and the request URL. The
classification of upstream responses is centralized: the service's error
envelope is not uniform, so the SDK normalizes HTML error pages, differing
JSON field names and not-found variants into the one Kind taxonomy.

# Remembered Sessions

For CLI-style usage, FileStore persists a credential between runs, sealed
with a passphrase-derived key:

	store := keyrunes.NewFileStore(path, passphrase)
	_ = store.Save(*cred)
	cred, err := store.Load()

# Thread Safety

A Client and its TokenStore are safe for concurrent use. The TokenStore
holds at most one credential; Set and Login overwrite unconditionally (last
writer wins).
*/
package keyrunes
