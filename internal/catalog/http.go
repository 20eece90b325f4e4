package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"catalogcalc/internal/calc"
)

const (
	DefaultCreatureURL = "https://pokeapi.co/api/v2"
	DefaultSciFiURL    = "https://swapi.dev/api"
)

// HTTPFetcher reads entities from the public creature and science-fiction
// catalog APIs.
type HTTPFetcher struct {
	creatureURL string
	scifiURL    string
	client      *http.Client
}

func NewHTTPFetcher(creatureURL, scifiURL string, client *http.Client) *HTTPFetcher {
	if creatureURL == "" {
		creatureURL = DefaultCreatureURL
	}
	if scifiURL == "" {
		scifiURL = DefaultSciFiURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		creatureURL: strings.TrimRight(creatureURL, "/"),
		scifiURL:    strings.TrimRight(scifiURL, "/"),
		client:      client,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref EntityRef) (map[string]any, error) {
	ref = ref.Canonical()
	name := strings.ToLower(ref.Name)
	if name == "" {
		return nil, fmt.Errorf("entity name is required")
	}

	switch calc.Universe(ref.Universe) {
	case calc.UniverseCreature:
		var bag map[string]any
		if err := f.getJSON(ctx, f.creatureURL+"/pokemon/"+url.PathEscape(name), &bag); err != nil {
			return nil, err
		}
		return bag, nil
	case calc.UniverseSciFi:
		resource := "people"
		if ref.Type == calc.TypePlanet {
			resource = "planets"
		}
		var page struct {
			Results []map[string]any `json:"results"`
		}
		endpoint := fmt.Sprintf("%s/%s/?search=%s", f.scifiURL, resource, url.QueryEscape(name))
		if err := f.getJSON(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		if len(page.Results) == 0 {
			return nil, fmt.Errorf("%w: %s %s", ErrEntityNotFound, resource, ref.Name)
		}
		return page.Results[0], nil
	default:
		return map[string]any{}, nil
	}
}

func (f *HTTPFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("requesting %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return nil
}
