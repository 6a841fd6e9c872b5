package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hossman39/availablityio/pkg/availability"
	"github.com/hossman39/availablityio/pkg/stremio"
)

// stubProvider serves fixed lookup results. A zero movieID means no
// match; an empty date means no digital release.
type stubProvider struct {
	movieID int
	date    string
}

func (p *stubProvider) FindMovie(ctx context.Context, imdbID string) (int, bool, error) {
	if p.movieID == 0 {
		return 0, false, nil
	}
	return p.movieID, true, nil
}

func (p *stubProvider) DigitalReleaseDate(ctx context.Context, movieID int) (string, bool, error) {
	if p.date == "" {
		return "", false, nil
	}
	return p.date, true, nil
}

func testManifest() stremio.Manifest {
	return stremio.Manifest{
		ID:          "com.github.hossman39.availablityio",
		Version:     "1.1.0",
		Name:        "Digital Release Dates",
		Description: "Shows the digital release date for movies, using data from TMDB.",
		Resources:   []string{"stream"},
		Types:       []string{stremio.TypeMovie},
		IDPrefixes:  []string{availability.IMDBIDPrefix},
		Catalogs:    []stremio.CatalogItem{},
	}
}

func setupRouter(provider availability.Provider) chi.Router {
	svc := availability.New(
		availability.WithProvider(provider),
		availability.WithNow(func() time.Time {
			return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		}),
	)
	handler := NewAddonHandler(svc, testManifest())

	router := chi.NewRouter()
	router.Mount("/", handler.Routes())
	return router
}

func TestAddonHandler_Manifest(t *testing.T) {
	router := setupRouter(&stubProvider{})

	req := httptest.NewRequest("GET", "/manifest.json", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var manifest stremio.Manifest
	err := json.Unmarshal(w.Body.Bytes(), &manifest)
	require.NoError(t, err)

	assert.Equal(t, "com.github.hossman39.availablityio", manifest.ID)
	assert.Equal(t, "Digital Release Dates", manifest.Name)
	assert.Equal(t, []string{"stream"}, manifest.Resources)
	assert.Equal(t, []string{"movie"}, manifest.Types)
	assert.Equal(t, []string{"tt"}, manifest.IDPrefixes)

	// Hosts reject manifests whose catalogs field is null or missing.
	assert.Contains(t, w.Body.String(), `"catalogs":[]`)
}

func TestAddonHandler_Stream(t *testing.T) {
	router := setupRouter(&stubProvider{movieID: 603, date: "2024-05-01T00:00:00.000Z"})

	req := httptest.NewRequest("GET", "/stream/movie/tt0133093.json", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp stremio.StreamsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Streams, 1)
	assert.Equal(t, "Digital Release", resp.Streams[0].Name)
	assert.Equal(t, "Digital release: 1 May 2024", resp.Streams[0].Title)
	assert.Equal(t, "https://www.themoviedb.org/movie/603", resp.Streams[0].ExternalURL)
}

func TestAddonHandler_StreamWithoutSuffix(t *testing.T) {
	router := setupRouter(&stubProvider{movieID: 603, date: "2024-05-01T00:00:00.000Z"})

	req := httptest.NewRequest("GET", "/stream/movie/tt0133093", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp stremio.StreamsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp.Streams, 1)
	assert.Equal(t, "Digital release: 1 May 2024", resp.Streams[0].Title)
}

func TestAddonHandler_StreamUnsupportedType(t *testing.T) {
	router := setupRouter(&stubProvider{movieID: 603, date: "2024-05-01T00:00:00.000Z"})

	req := httptest.NewRequest("GET", "/stream/series/tt0133093.json", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// The empty case must serialize as an array, not null.
	assert.JSONEq(t, `{"streams":[]}`, w.Body.String())
}

func TestAddonHandler_StreamNoMatch(t *testing.T) {
	router := setupRouter(&stubProvider{})

	req := httptest.NewRequest("GET", "/stream/movie/tt9999999.json", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp stremio.StreamsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp.Streams, 1)
	assert.Equal(t, "No TMDB match for this movie", resp.Streams[0].Title)
	assert.Equal(t, "https://www.themoviedb.org/", resp.Streams[0].ExternalURL)
}

func TestAddonHandler_Health(t *testing.T) {
	router := setupRouter(&stubProvider{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAddonHandler_RootRedirect(t *testing.T) {
	router := setupRouter(&stubProvider{})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/manifest.json", w.Header().Get("Location"))
}
