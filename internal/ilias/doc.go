// Package ilias provides the authenticated session against the remote
// learning platform.
//
// # Architecture
//
// The Client wraps a cookie-bearing http.Client. Login performs the two-step
// Shibboleth handshake once at startup; after that the session cookie is
// shared read-only by every crawl task. There is no re-authentication path:
// a session is assumed valid for the whole run.
//
// # Addressing
//
// References starting with an absolute scheme or the service's own host pass
// through unmodified; everything else is resolved relative to the service
// root. This mirrors how the platform emits both absolute and root-relative
// hrefs in the same page.
//
// # Error reporting
//
// The platform reports many failures inside a successful HTTP response by
// rendering an alert banner. Page and Fragment detect that banner and return
// ErrServiceBanner so callers treat it like any other fetch failure.
package ilias
