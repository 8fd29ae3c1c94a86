package ilias

import "errors"

// Sentinel errors for session and fetch failures.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances at the failure sites. This allows callers to use
// errors.Is() for programmatic handling while still providing human-readable
// messages.
var (
	// ErrServiceBanner is returned when a fetched page reports a failure
	// via the platform's alert banner despite HTTP success.
	ErrServiceBanner = errors.New("service reported an error banner")

	// ErrBadCredentials is returned when the identity provider does not
	// hand back a SAML response, which in practice means the password was
	// rejected.
	ErrBadCredentials = errors.New("no SAML response, incorrect password?")

	// ErrNoRelayState is returned when the identity provider response is
	// missing its relay state, indicating an unexpected handshake page.
	ErrNoRelayState = errors.New("no relay state in identity provider response")

	// ErrInvalidServiceURL is returned when the configured service root is
	// not an absolute http(s) URL.
	ErrInvalidServiceURL = errors.New("service URL must be an absolute http(s) URL")
)
