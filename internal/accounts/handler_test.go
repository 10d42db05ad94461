package accounts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, revoker := newTestService(t, "root")

	router := gin.New()
	router.Use(middleware.Auth(svc.Signer, revoker))
	NewHandler(svc, time.Hour, false).RegisterRoutes(router.Group(""))
	return router, svc
}

func doJSON(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterLoginMeLogout(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doJSON(router, http.MethodPost, "/register", `{"username":"alice","password":"s3cretpass","email":"a@example.com"}`, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Header().Get("Set-Cookie"), middleware.SessionCookie+"=") {
		t.Fatalf("expected session cookie, got %q", resp.Header().Get("Set-Cookie"))
	}

	resp = doJSON(router, http.MethodPost, "/login", `{"username":"alice","password":"wrong-pass"}`, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodPost, "/login", `{"username":"alice","password":"s3cretpass"}`, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.Code)
	}
	var session sessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" || session.Account.Username != "alice" || session.Account.IsAdmin {
		t.Fatalf("unexpected session %+v", session)
	}

	resp = doJSON(router, http.MethodGet, "/me", "", session.Token)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"username":"alice"`) {
		t.Fatalf("me: got %d %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(router, http.MethodPost, "/logout", "", session.Token)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodGet, "/me", "", session.Token)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", resp.Code)
	}
}

func TestRegisterAcceptsFormAndRejectsDuplicates(t *testing.T) {
	router, _ := newTestRouter(t)

	form := "username=bob&password=s3cretpass"
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("form register: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(router, http.MethodPost, "/register", `{"username":"bob","password":"s3cretpass"}`, "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodPost, "/register", `{"username":"carl","password":"x"}`, "")
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), `"field":"password"`) {
		t.Fatalf("invalid: got %d %s", resp.Code, resp.Body.String())
	}
}

func TestDeleteAccount(t *testing.T) {
	router, svc := newTestRouter(t)

	resp := doJSON(router, http.MethodPost, "/register", `{"username":"root","password":"s3cretpass"}`, "")
	var session sessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if !session.Account.IsAdmin {
		t.Fatalf("expected admin account")
	}

	resp = doJSON(router, http.MethodDelete, "/account", "", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous delete: expected 401, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodDelete, "/account", "", session.Token)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.Code)
	}
	if _, err := svc.Get(context.Background(), session.Account.ID); err == nil {
		t.Fatalf("expected account removed")
	}
}
