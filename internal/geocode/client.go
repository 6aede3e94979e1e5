package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"water-report-service/internal/config"
)

// Result is a resolved address for a coordinate pair. On provider failure
// only Address is set, formatted from the raw coordinates.
type Result struct {
	Address     string  `json:"address"`
	City        *string `json:"city,omitempty"`
	Voivodeship *string `json:"voivodeship,omitempty"`
	PostalCode  *string `json:"postalCode,omitempty"`
}

type SearchResult struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Client talks to an OSM Nominatim instance.
// Usage policy: https://operations.osmfoundation.org/policies/nominatim/
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       zerolog.Logger
}

func NewClient(cfg config.GeocodeConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   cfg.NominatimURL,
		userAgent: "Cola-z-Kranu/" + cfg.ContactEmail,
		http:      &http.Client{Timeout: cfg.Timeout},
		log:       log,
	}
}

type nominatimAddress struct {
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Postcode    string `json:"postcode"`
	State       string `json:"state"`
}

type nominatimReverseResponse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// Reverse resolves coordinates to an address. It never fails: on any
// provider or transport error it returns a coordinate-string fallback so
// report creation is not blocked by geocoding availability.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) Result {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("zoom", "18")

	var payload nominatimReverseResponse
	if err := c.get(ctx, "/reverse", params, &payload); err != nil {
		c.log.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("nominatim reverse geocoding failed")
		return Result{Address: fmt.Sprintf("%.6f, %.6f", lat, lon)}
	}

	addr := payload.Address

	city := addr.City
	if city == "" {
		city = addr.Town
	}
	if city == "" {
		city = addr.Village
	}

	address := payload.DisplayName
	if addr.Road != "" {
		address = addr.Road
		if addr.HouseNumber != "" {
			address = addr.Road + " " + addr.HouseNumber
		}
		if city != "" {
			address += ", " + city
		}
	}
	if address == "" {
		address = fmt.Sprintf("%.6f, %.6f", lat, lon)
	}

	return Result{
		Address:     address,
		City:        optional(city),
		Voivodeship: optional(addr.State),
		PostalCode:  optional(addr.Postcode),
	}
}

type nominatimSearchItem struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search looks up locations by free-text query, limited to Poland. Provider
// errors degrade to an empty result list.
func (c *Client) Search(ctx context.Context, query string) []SearchResult {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", "10")
	params.Set("countrycodes", "pl")

	var items []nominatimSearchItem
	if err := c.get(ctx, "/search", params, &items); err != nil {
		c.log.Error().Err(err).Str("query", query).Msg("nominatim search failed")
		return []SearchResult{}
	}

	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		lat, errLat := strconv.ParseFloat(item.Lat, 64)
		lon, errLon := strconv.ParseFloat(item.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		results = append(results, SearchResult{
			Lat:         lat,
			Lon:         lon,
			DisplayName: item.DisplayName,
		})
	}
	return results
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
