// Package tmdb is a small client for the TMDB v3 API covering the two
// lookups this service performs: resolving an IMDb id to a TMDB movie
// id, and selecting the earliest digital release date for a movie.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultBaseURL is the TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// HomeURL is the TMDB landing page, used as the link target when no
// movie page is known.
const HomeURL = "https://www.themoviedb.org/"

// releaseTypeDigital is TMDB's release event type code for a digital
// release (1 premiere, 2/3 theatrical, 4 digital, 5 physical, 6 TV).
const releaseTypeDigital = 4

// preferredRegion is the region whose release events win when any of
// them qualify; other regions are only a fallback.
const preferredRegion = "US"

// MovieURL returns the TMDB web page for a movie id.
func MovieURL(movieID int) string {
	return fmt.Sprintf("https://www.themoviedb.org/movie/%d", movieID)
}

// StatusError reports a non-success response from the TMDB API.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d", e.Endpoint, e.StatusCode)
}

// Client calls the TMDB v3 API. The zero value is not usable; construct
// with NewClient.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// NewClient creates a TMDB client authenticating with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type findResponse struct {
	MovieResults []struct {
		ID int `json:"id"`
	} `json:"movie_results"`
}

// FindMovie resolves an IMDb id ("tt...") to a TMDB movie id. The
// second return value is false when TMDB knows no movie for the id.
func (c *Client) FindMovie(ctx context.Context, imdbID string) (int, bool, error) {
	query := url.Values{}
	query.Set("external_source", "imdb_id")

	var res findResponse
	if err := c.getJSON(ctx, "/find/"+url.PathEscape(imdbID), query, &res); err != nil {
		return 0, false, err
	}
	if len(res.MovieResults) == 0 {
		return 0, false, nil
	}
	return res.MovieResults[0].ID, true, nil
}

type releaseDatesResponse struct {
	Results []struct {
		Region   string `json:"iso_3166_1"`
		Releases []struct {
			Date string `json:"release_date"`
			Type int    `json:"type"`
		} `json:"release_dates"`
	} `json:"results"`
}

// DigitalReleaseDate returns the earliest digital release date TMDB
// lists for a movie, as the raw date string from the API. Events from
// the preferred region are used when any exist; otherwise all regions
// are considered. The second return value is false when no digital
// release event with a date is listed at all.
func (c *Client) DigitalReleaseDate(ctx context.Context, movieID int) (string, bool, error) {
	var res releaseDatesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/release_dates", movieID), nil, &res); err != nil {
		return "", false, err
	}

	var preferred, all []string
	for _, region := range res.Results {
		for _, rel := range region.Releases {
			if rel.Type != releaseTypeDigital || rel.Date == "" {
				continue
			}
			all = append(all, rel.Date)
			if region.Region == preferredRegion {
				preferred = append(preferred, rel.Date)
			}
		}
	}

	dates := all
	if len(preferred) > 0 {
		dates = preferred
	}
	if len(dates) == 0 {
		return "", false, nil
	}

	// TMDB dates are ISO 8601, so lexicographic order is chronological.
	sort.Strings(dates)
	return dates[0], true, nil
}

// getJSON performs a GET against the API and decodes the JSON body into
// target. The api_key parameter is added to every request.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	endpoint := strings.TrimSuffix(c.baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("tmdb: decode %s response: %w", path, err)
	}
	return nil
}
