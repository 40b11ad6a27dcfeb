package dwolla

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

// newTestServer returns a server that grants tokens and echoes a minimal
// resource, counting token grants and API hits.
func newTestServer(t *testing.T, tokenGrants, apiHits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "key" || pass != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			atomic.AddInt64(tokenGrants, 1)
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-1",
				"token_type":   "bearer",
				"expires_in":   3600,
			})
		case "/resource":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			atomic.AddInt64(apiHits, 1)
			json.NewEncoder(w).Encode(map[string]string{"id": "abc"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestValidToken_RequiresCredentials(t *testing.T) {
	c := NewClient("https://api.example.com", "https://api.example.com/token", time.Second)

	var out any
	err := c.Get(context.Background(), "/resource", &out)
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestValidToken_ReusedWithinLifetime(t *testing.T) {
	var grants, hits int64
	srv := newTestServer(t, &grants, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/token", time.Second)
	if _, err := c.SetCredentials(context.Background(), "key", "secret"); err != nil {
		t.Fatalf("SetCredentials returned error: %v", err)
	}

	var out struct{ ID string }
	for i := 0; i < 2; i++ {
		if err := c.Get(context.Background(), "/resource", &out); err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
	}
	if grants != 1 {
		t.Fatalf("expected a single token grant, got %d", grants)
	}
	if hits != 2 {
		t.Fatalf("expected 2 api hits, got %d", hits)
	}
}

func TestValidToken_RefreshesInsideSafetyMargin(t *testing.T) {
	var grants, hits int64
	srv := newTestServer(t, &grants, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/token", time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	if _, err := c.SetCredentials(context.Background(), "key", "secret"); err != nil {
		t.Fatalf("SetCredentials returned error: %v", err)
	}

	// Age the token to within 60s of its 3600s lifetime.
	now = now.Add(3541 * time.Second)

	var out struct{ ID string }
	if err := c.Get(context.Background(), "/resource", &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if grants != 2 {
		t.Fatalf("expected exactly one refresh before the request, got %d grants", grants)
	}
}

func TestSetCredentials_RejectedCredentials(t *testing.T) {
	var grants, hits int64
	srv := newTestServer(t, &grants, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/token", time.Second)
	_, err := c.SetCredentials(context.Background(), "key", "wrong")

	var authErr *domain.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
}

func TestStatus_ReportsTokenLifecycle(t *testing.T) {
	var grants, hits int64
	srv := newTestServer(t, &grants, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/token", time.Second)
	st := c.Status()
	if st.IsConfigured || st.HasToken || st.TokenStatus != "none" {
		t.Fatalf("unexpected initial status: %+v", st)
	}

	now := time.Now()
	c.now = func() time.Time { return now }
	if _, err := c.SetCredentials(context.Background(), "key", "secret"); err != nil {
		t.Fatalf("SetCredentials returned error: %v", err)
	}

	st = c.Status()
	if !st.IsConfigured || !st.HasToken || st.TokenStatus != "valid" {
		t.Fatalf("expected valid token status, got %+v", st)
	}
	if st.RemainingTokenTime != 3600 {
		t.Fatalf("expected 3600s remaining, got %d", st.RemainingTokenTime)
	}

	now = now.Add(3700 * time.Second)
	st = c.Status()
	if st.TokenStatus != "expired" || st.RemainingTokenTime != 0 {
		t.Fatalf("expected expired status with no time left, got %+v", st)
	}
}

func TestPostFollow_FollowsLocation(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": 3600})
	})
	mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", srv.URL+"/customers/c1")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/customers/c1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "c1", "status": "unverified"})
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/token", time.Second)
	if _, err := c.SetCredentials(context.Background(), "key", "secret"); err != nil {
		t.Fatalf("SetCredentials returned error: %v", err)
	}

	var created struct{ ID, Status string }
	if err := c.PostFollow(context.Background(), "/customers", map[string]string{"firstName": "A"}, &created); err != nil {
		t.Fatalf("PostFollow returned error: %v", err)
	}
	if created.ID != "c1" || created.Status != "unverified" {
		t.Fatalf("unexpected created resource: %+v", created)
	}
}

func TestPostFollow_MissingLocationIsMappingError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": 3600})
	})
	mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/token", time.Second)
	if _, err := c.SetCredentials(context.Background(), "key", "secret"); err != nil {
		t.Fatalf("SetCredentials returned error: %v", err)
	}

	err := c.PostFollow(context.Background(), "/customers", nil, &struct{}{})
	var mapErr *domain.MappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("expected MappingError, got %v", err)
	}
}

func TestDo_DecodesProviderError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": 3600})
	})
	mux.HandleFunc("/transfers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"ValidationError","message":"Validation error(s) present.","_embedded":{"errors":[{"code":"InsufficientFunds","message":"Insufficient funds.","path":"/amount"}]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/token", time.Second)
	if _, err := c.SetCredentials(context.Background(), "key", "secret"); err != nil {
		t.Fatalf("SetCredentials returned error: %v", err)
	}

	_, err := c.Post(context.Background(), "/transfers", map[string]string{}, nil)
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !perr.ClientFault() {
		t.Fatalf("expected client fault for a 400, got %+v", perr)
	}
	if len(perr.Errors) != 1 || perr.Errors[0].Code != "InsufficientFunds" {
		t.Fatalf("expected embedded InsufficientFunds sub-error, got %+v", perr.Errors)
	}
}
