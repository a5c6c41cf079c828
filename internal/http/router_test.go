package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"
)

func TestRouterRoutes(t *testing.T) {
	handler := NewHandler(&stubResolver{}, &stubCacheAdmin{}, "secret", nil)
	router := NewRouter(handler)

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "health", method: nethttp.MethodGet, path: "/health", want: nethttp.StatusOK},
		{name: "ready", method: nethttp.MethodGet, path: "/ready", want: nethttp.StatusOK},
		{name: "watch", method: nethttp.MethodGet, path: "/watch?title=x", want: nethttp.StatusOK},
		{name: "admin without token", method: nethttp.MethodPost, path: "/admin/cache/clear?category=search", want: nethttp.StatusUnauthorized},
		{name: "unknown", method: nethttp.MethodGet, path: "/nope", want: nethttp.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
			}
		})
	}
}

func TestRouterHidesAdminWithoutToken(t *testing.T) {
	handler := NewHandler(&stubResolver{}, &stubCacheAdmin{}, "", nil)
	router := NewRouter(handler)

	req := httptest.NewRequest(nethttp.MethodPost, "/admin/cache/clear?category=search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("expected admin route unmounted, got %d", rec.Code)
	}
}
