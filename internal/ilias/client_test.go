package ilias

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient creates a client rooted at the given test server.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	c, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

// TestNewClient tests service URL validation.
func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("rejects relative and non-http URLs", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"", "ilias.example.edu", "ftp://x", "://"} {
			if _, err := NewClient(bad); !errors.Is(err, ErrInvalidServiceURL) {
				t.Errorf("NewClient(%q): expected ErrInvalidServiceURL, got %v", bad, err)
			}
		}
	})

	t.Run("appends trailing slash", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient("https://ilias.example.edu")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.ServiceURL() != "https://ilias.example.edu/" {
			t.Errorf("expected trailing slash, got %q", c.ServiceURL())
		}
	})
}

// TestResolve tests the addressing rule.
func TestResolve(t *testing.T) {
	t.Parallel()

	c, err := NewClient("https://ilias.example.edu/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"absolute scheme passes through", "https://other.example.com/clip.mp4", "https://other.example.com/clip.mp4"},
		{"service host passes through", "ilias.example.edu/goto.php?target=crs_1_", "ilias.example.edu/goto.php?target=crs_1_"},
		{"relative resolved against root", "goto.php?target=crs_1_", "https://ilias.example.edu/goto.php?target=crs_1_"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := c.Resolve(tt.ref); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

// TestPage tests document fetching and banner detection.
func TestPage(t *testing.T) {
	t.Parallel()

	t.Run("parses a healthy page", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<html><body><h1>Desktop</h1></body></html>`)
		}))
		defer srv.Close()

		doc, err := newTestClient(t, srv).Page(context.Background(), "ilias.php")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Find("h1").Text() != "Desktop" {
			t.Error("document content not accessible")
		}
	})

	t.Run("detects the error banner", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<html><body><div class="alert-danger">Permission denied</div></body></html>`)
		}))
		defer srv.Close()

		if _, err := newTestClient(t, srv).Page(context.Background(), "ilias.php"); !errors.Is(err, ErrServiceBanner) {
			t.Errorf("expected ErrServiceBanner, got %v", err)
		}
	})
}

// TestStream tests raw byte streaming.
func TestStream(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "payload-bytes")
	}))
	defer srv.Close()

	rc, err := newTestClient(t, srv).Stream(context.Background(), "file.bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(body) != "payload-bytes" {
		t.Errorf("unexpected stream content %q", body)
	}
}

// TestLogin tests the Shibboleth handshake against a scripted server.
func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy path stores session", func(t *testing.T) {
		t.Parallel()

		var sawAssertion bool
		mux := http.NewServeMux()
		mux.HandleFunc("/Shibboleth.sso/Login", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/idp/profile", http.StatusFound)
		})
		mux.HandleFunc("/idp/profile", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.FormValue("j_username") != "" {
				fmt.Fprint(w, `<form>
					<input name="SAMLResponse" value="assertion"/>
					<input name="RelayState" value="state"/>
				</form>`)
				return
			}
			fmt.Fprint(w, `<form></form>`)
		})
		mux.HandleFunc("/Shibboleth.sso/SAML2/POST", func(w http.ResponseWriter, r *http.Request) {
			if r.FormValue("SAMLResponse") == "assertion" && r.FormValue("RelayState") == "state" {
				sawAssertion = true
			}
			w.WriteHeader(http.StatusOK)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		c := newTestClient(t, srv)
		if err := c.Login(context.Background(), "user", "pass", DefaultLoginParams(c.ServiceURL())); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !sawAssertion {
			t.Error("SAML assertion never reached the service")
		}
	})

	t.Run("missing SAML response means bad credentials", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<form><p>Login failed</p></form>`)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		err := c.Login(context.Background(), "user", "wrong", DefaultLoginParams(c.ServiceURL()))
		if !errors.Is(err, ErrBadCredentials) {
			t.Errorf("expected ErrBadCredentials, got %v", err)
		}
	})
}
