package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookup(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"-29.6842","lon":"-53.8069"}]`))
	}))
	defer srv.Close()

	c := NewClient("Santa Maria, RS")
	c.BaseURL = srv.URL

	lat, lng, err := c.Lookup(context.Background(), "Rua das Flores, 120 - Centro")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if lat != -29.6842 || lng != -53.8069 {
		t.Fatalf("unexpected coordinates: %v, %v", lat, lng)
	}
	if gotQuery != "Rua das Flores, 120 - Centro, Santa Maria, RS" {
		t.Fatalf("region not appended: %q", gotQuery)
	}
}

func TestLookupNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("")
	c.BaseURL = srv.URL

	_, _, err := c.Lookup(context.Background(), "Rua Inexistente")
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestLookupProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("")
	c.BaseURL = srv.URL

	_, _, err := c.Lookup(context.Background(), "Rua A")
	if err == nil || errors.Is(err, ErrNoResult) {
		t.Fatalf("expected hard error, got %v", err)
	}
}

func TestLookupEmptyAddress(t *testing.T) {
	c := NewClient("")
	if _, _, err := c.Lookup(context.Background(), "   "); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}
