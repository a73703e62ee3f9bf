package middlewarex

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chartitze/internal/config"
)

func TestAdminAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cfg := config.Cfg{Sec: config.SecurityCfg{AdminToken: "s3cret"}}
	h := AdminAuth(cfg)(ok)

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", res.Code)
	}

	req = httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	res = httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", res.Code)
	}

	req = httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.Header.Set("X-Admin-Token", "s3cret")
	res = httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if res.Code != http.StatusNoContent {
		t.Fatalf("valid token: status = %d, want 204", res.Code)
	}

	// An empty configured token locks the admin surface, it never opens it.
	open := AdminAuth(config.Cfg{})(ok)
	req = httptest.NewRequest("GET", "/admin/dashboard", nil)
	res = httptest.NewRecorder()
	open.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("empty token config: status = %d, want 401", res.Code)
	}
}
