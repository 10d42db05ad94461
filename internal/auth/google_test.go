package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type fakeIssuer struct {
	provider, subject, email, name string
}

func (f *fakeIssuer) LoginExternal(ctx context.Context, provider, subject, email, name string) (string, error) {
	f.provider, f.subject, f.email, f.name = provider, subject, email, name
	return "session-token", nil
}

func TestGoogleCallbackIssuesSessionForAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer at" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":"42","email":"g@example.com","name":"Grace Hopper"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(idp.Close)

	issuer := &fakeIssuer{}
	svc := NewGoogleService("cid", "secret", "http://api.local/auth/google/callback", "http://ui.local/done", issuer)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{AuthURL: idp.URL + "/auth", TokenURL: idp.URL + "/token"}
	svc.userInfoURL = idp.URL + "/userinfo"

	router := gin.New()
	svc.RegisterRoutes(router.Group(""))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/auth/google/start", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("start: expected 302, got %d", resp.Code)
	}
	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse start redirect: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatalf("expected state in %s", loc)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code=c1", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("callback: expected 302, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Location"); got != "http://ui.local/done?token=session-token" {
		t.Fatalf("unexpected redirect %q", got)
	}
	if issuer.provider != "google" || issuer.subject != "42" || issuer.email != "g@example.com" {
		t.Fatalf("unexpected identity %+v", issuer)
	}

	// state is single use
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code=c1", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("replay: expected 400, got %d", resp.Code)
	}
}

func TestGoogleStartRequiresConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewGoogleService("", "", "", "", &fakeIssuer{})
	router := gin.New()
	svc.RegisterRoutes(router.Group(""))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/auth/google/start", nil))
	if resp.Code != http.StatusInternalServerError || !strings.Contains(resp.Body.String(), "auth_not_configured") {
		t.Fatalf("got %d %s", resp.Code, resp.Body.String())
	}
}
