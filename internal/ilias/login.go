package ilias

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Shibboleth handshake endpoints and fixed form values, relative to the
// service root. The identity provider selection is institution-specific and
// travels with the first request.
const (
	loginPath = "Shibboleth.sso/Login"
	samlPath  = "Shibboleth.sso/SAML2/POST"
)

// LoginParams carries the institution-specific values of the first
// handshake request. The defaults target the KIT identity provider.
type LoginParams struct {
	// IdPSelection is the identity provider entity URL.
	IdPSelection string

	// Target is the post-login redirect target.
	Target string

	// HomeOrganization is the organization selection label.
	HomeOrganization string
}

// DefaultLoginParams returns the stock KIT handshake values.
func DefaultLoginParams(serviceURL string) LoginParams {
	return LoginParams{
		IdPSelection:     "https://idp.scc.kit.edu/idp/shibboleth",
		Target:           serviceURL + "shib_login.php?target=",
		HomeOrganization: "Mit KIT-Account anmelden",
	}
}

// Login performs the two-step Shibboleth handshake and stores the session
// cookie in the client's jar. This is the only fatal error class of a run:
// callers abort entirely when it fails.
func (c *Client) Login(ctx context.Context, user, pass string, params LoginParams) error {
	c.logger.Info("logging into identity provider")

	// Step 1: session establishment. The response lands on the identity
	// provider's credential form after redirects.
	establishment, err := c.postForm(ctx, c.serviceURL+loginPath, url.Values{
		"sendLogin":                   {"1"},
		"idp_selection":               {params.IdPSelection},
		"target":                      {params.Target},
		"home_organization_selection": {params.HomeOrganization},
	})
	if err != nil {
		return fmt.Errorf("session establishment: %w", err)
	}
	credentialURL := establishment.Request.URL.String()
	_ = establishment.Body.Close()

	// Step 2: credentials. The identity provider answers with a form
	// holding the SAML response to relay back to the service.
	resp, err := c.postForm(ctx, credentialURL, url.Values{
		"j_username":       {user},
		"j_password":       {pass},
		"_eventId_proceed": {""},
	})
	if err != nil {
		return fmt.Errorf("credential submission: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("parse identity provider response: %w", err)
	}

	saml, ok := doc.Find(`input[name="SAMLResponse"]`).First().Attr("value")
	if !ok {
		return ErrBadCredentials
	}
	relayState, ok := doc.Find(`input[name="RelayState"]`).First().Attr("value")
	if !ok {
		return ErrNoRelayState
	}

	// Step 3: relay the assertion to the service, which sets the session
	// cookie.
	c.logger.Info("relaying SAML assertion")
	final, err := c.postForm(ctx, c.serviceURL+samlPath, url.Values{
		"SAMLResponse": {saml},
		"RelayState":   {relayState},
	})
	if err != nil {
		return fmt.Errorf("assertion relay: %w", err)
	}
	_ = final.Body.Close()

	c.logger.Info("logged in")
	return nil
}

// postForm submits a URL-encoded form and returns the final response after
// redirects.
func (c *Client) postForm(ctx context.Context, target string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", target, err)
	}
	return resp, nil
}
