// Package env isolates access to the host environment: process
// environment variables (Reader) and the webhook event payload the CI
// runner writes to disk (LoadEvent).
//
// Keeping these behind small types lets the derivation logic in package
// publish run against in-memory fixtures.
package env
