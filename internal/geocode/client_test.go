package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"water-report-service/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(config.GeocodeConfig{
		NominatimURL: server.URL,
		ContactEmail: "test@example.com",
		Timeout:      2 * time.Second,
	}, zerolog.Nop())
	return client, server
}

func TestReverseBuildsStreetAddress(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %q, want /reverse", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "Cola-z-Kranu/test@example.com" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"display_name": "Marszałkowska 1, Warszawa, mazowieckie, Polska",
			"address": {
				"road": "Marszałkowska",
				"house_number": "1",
				"city": "Warszawa",
				"postcode": "00-001",
				"state": "mazowieckie"
			}
		}`))
	}))

	result := client.Reverse(context.Background(), 52.2297, 21.0122)

	if result.Address != "Marszałkowska 1, Warszawa" {
		t.Errorf("Address = %q", result.Address)
	}
	if result.City == nil || *result.City != "Warszawa" {
		t.Errorf("City = %v, want Warszawa", result.City)
	}
	if result.Voivodeship == nil || *result.Voivodeship != "mazowieckie" {
		t.Errorf("Voivodeship = %v, want mazowieckie", result.Voivodeship)
	}
	if result.PostalCode == nil || *result.PostalCode != "00-001" {
		t.Errorf("PostalCode = %v, want 00-001", result.PostalCode)
	}
}

func TestReverseFallsBackToTownAndVillage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"display_name": "Somewhere rural",
			"address": {"village": "Lipka", "state": "wielkopolskie"}
		}`))
	}))

	result := client.Reverse(context.Background(), 53.5, 17.2)
	if result.City == nil || *result.City != "Lipka" {
		t.Errorf("City = %v, want Lipka", result.City)
	}
	if result.Address != "Somewhere rural" {
		t.Errorf("Address = %q, want display name", result.Address)
	}
}

func TestReverseDegradesOnProviderError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	result := client.Reverse(context.Background(), 52.2297, 21.0122)

	if result.Address != "52.229700, 21.012200" {
		t.Errorf("fallback address = %q", result.Address)
	}
	if result.City != nil || result.Voivodeship != nil || result.PostalCode != nil {
		t.Error("degraded result must carry only the coordinate address")
	}
}

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		if got := r.URL.Query().Get("countrycodes"); got != "pl" {
			t.Errorf("countrycodes = %q, want pl", got)
		}
		w.Write([]byte(`[
			{"lat": "52.2297", "lon": "21.0122", "display_name": "Warszawa, Polska"},
			{"lat": "not-a-number", "lon": "21", "display_name": "broken row"}
		]`))
	}))

	results := client.Search(context.Background(), "Warszawa")
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 (broken row skipped)", len(results))
	}
	if results[0].DisplayName != "Warszawa, Polska" {
		t.Errorf("DisplayName = %q", results[0].DisplayName)
	}
	if results[0].Lat != 52.2297 || results[0].Lon != 21.0122 {
		t.Errorf("coords = %v, %v", results[0].Lat, results[0].Lon)
	}
}

func TestSearchDegradesToEmptyOnProviderError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	results := client.Search(context.Background(), "Kraków")
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}
