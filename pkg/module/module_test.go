package module_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/rohads/pkg/module"
)

func TestNewInvalidPrefixPanics(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "api"},
		{"nested path", "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic for invalid prefix")
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestPrefixStripping(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantPath string
	}{
		{"nested", "/api/sessions", "/sessions"},
		{"root", "/api", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received string
			m := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				received = r.URL.Path
			}))

			m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", tt.path, nil))

			if received != tt.wantPath {
				t.Errorf("inner path: got %s, want %s", received, tt.wantPath)
			}
		})
	}
}

func TestModuleMiddleware(t *testing.T) {
	m := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var called bool
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	})

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api", nil))

	if !called {
		t.Error("module middleware should have been called")
	}
}

func TestRouterDispatch(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api:" + r.URL.Path))
	})))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("healthy"))
	})

	tests := []struct {
		path string
		want string
	}{
		{"/api/sessions/", "api:/sessions"},
		{"/api", "api:/"},
		{"/healthz", "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body: got %q, want %q", got, tt.want)
			}
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/apix", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unmatched prefix: got %d, want 404", rec.Code)
	}
}

func TestRouterMount(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/web", http.NewServeMux()))
	router.Mount(module.New("/api", http.NewServeMux()))

	if got := router.Prefixes(); !slices.Equal(got, []string{"/api", "/web"}) {
		t.Errorf("prefixes: got %v", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for duplicate prefix")
		}
	}()
	router.Mount(module.New("/api", http.NewServeMux()))
}
