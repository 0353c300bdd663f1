// Package google authorizes calhelper against Google APIs.
//
// Each authorized Google account is one "grant": a named OAuth token stored
// on disk as google-<account>.token. Commands pick the grant with --account
// and build their API clients from the HTTP client returned by HTTPClient.
// Refreshed tokens are written back so the next invocation reuses them.
//
// The TokenProvider interface keeps the calendar and gmail packages
// independent of where tokens come from, which is what their tests rely on.
package google
