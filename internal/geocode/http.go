// Package geocode holds the external geocoders the postal code store falls
// back to.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/thomhuang/happycamper/internal/model"
)

// DefaultURL is a public postal code API answering GET {base}/{code}.
const DefaultURL = "https://api.zippopotam.us/us"

var (
	// ErrNotFound means the service does not know the code. Not retried.
	ErrNotFound = errors.New("postal code unknown to geocoder")

	// ErrTransient covers rate limits, server errors and transport failures.
	ErrTransient = errors.New("geocoder temporarily unavailable")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var defaultClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

func Client() *http.Client { return defaultClient }

type HTTP struct {
	base   string
	client *http.Client
}

func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = defaultClient
	}
	return &HTTP{base: strings.TrimRight(base, "/"), client: client}
}

type placesResponse struct {
	PostCode string `json:"post code"`
	Places   []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

func (g *HTTP) Geocode(ctx context.Context, code string) (model.PostalCodeLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/"+url.PathEscape(code), nil)
	if err != nil {
		return model.PostalCodeLocation{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return model.PostalCodeLocation{}, ctx.Err()
		}
		return model.PostalCodeLocation{}, errors.Join(ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.PostalCodeLocation{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return model.PostalCodeLocation{}, fmt.Errorf("%w: %s", ErrTransient, resp.Status)
	case resp.StatusCode >= 300:
		return model.PostalCodeLocation{}, fmt.Errorf("geocode %s: %s", code, resp.Status)
	}

	var out placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.PostalCodeLocation{}, fmt.Errorf("decode geocoder response: %w", err)
	}
	if len(out.Places) == 0 {
		return model.PostalCodeLocation{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}

	lat, err := strconv.ParseFloat(out.Places[0].Latitude, 64)
	if err != nil {
		return model.PostalCodeLocation{}, fmt.Errorf("geocoder latitude for %s: %w", code, err)
	}
	lon, err := strconv.ParseFloat(out.Places[0].Longitude, 64)
	if err != nil {
		return model.PostalCodeLocation{}, fmt.Errorf("geocoder longitude for %s: %w", code, err)
	}

	return model.PostalCodeLocation{Code: code, Latitude: lat, Longitude: lon}, nil
}
