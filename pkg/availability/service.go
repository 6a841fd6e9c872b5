package availability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hossman39/availablityio/pkg/stremio"
	"github.com/hossman39/availablityio/pkg/tmdb"
)

// IMDBIDPrefix is the id prefix this service can resolve.
const IMDBIDPrefix = "tt"

// streamName labels every entry the addon returns.
const streamName = "Digital Release"

// displayDateFormat renders release dates for viewers.
const displayDateFormat = "2 January 2006"

// Provider resolves movie identity and digital release dates.
type Provider interface {
	// FindMovie maps an IMDb id to the provider's movie id. The boolean
	// reports whether a movie matched.
	FindMovie(ctx context.Context, imdbID string) (int, bool, error)

	// DigitalReleaseDate returns the raw date string of the earliest
	// digital release event, preferring the primary region. The boolean
	// reports whether any dated digital event exists.
	DigitalReleaseDate(ctx context.Context, movieID int) (string, bool, error)
}

var _ Provider = (*tmdb.Client)(nil)

// Service answers stream lookups with digital availability entries.
type Service struct {
	provider Provider
	now      func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithProvider sets the metadata provider used for lookups.
func WithProvider(p Provider) Option {
	return func(s *Service) {
		s.provider = p
	}
}

// WithNow sets the clock used to decide whether a release date has
// passed. Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a service with the given options. A service built without
// a provider still serves lookups: every request is answered with the
// configuration error entry.
func New(options ...Option) *Service {
	s := &Service{
		now: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Streams resolves one lookup into the list of entries to show. The
// list holds exactly one entry, except for unsupported media types and
// id shapes, which yield an empty list. Provider failures are logged
// and mapped to a generic error entry, never returned.
func (s *Service) Streams(ctx context.Context, mediaType, id string) []stremio.Stream {
	if s.provider == nil {
		return []stremio.Stream{configErrorStream()}
	}
	if mediaType != stremio.TypeMovie {
		return []stremio.Stream{}
	}
	if !strings.HasPrefix(id, IMDBIDPrefix) {
		return []stremio.Stream{}
	}

	entry, err := s.lookup(ctx, id)
	if err != nil {
		slog.Error("Failed to resolve digital release", "id", id, "error", err)
		return []stremio.Stream{errorStream()}
	}
	return []stremio.Stream{entry}
}

// lookup resolves the entry for a well-formed movie id. Provider errors
// are returned to the caller, which owns the mapping to the error entry.
func (s *Service) lookup(ctx context.Context, imdbID string) (stremio.Stream, error) {
	movieID, found, err := s.provider.FindMovie(ctx, imdbID)
	if err != nil {
		return stremio.Stream{}, fmt.Errorf("find movie %s: %w", imdbID, err)
	}
	if !found {
		return noMatchStream(), nil
	}

	rawDate, found, err := s.provider.DigitalReleaseDate(ctx, movieID)
	if err != nil {
		return stremio.Stream{}, fmt.Errorf("release dates for movie %d: %w", movieID, err)
	}
	if !found {
		return noDigitalDateStream(movieID), nil
	}

	releaseAt, ok := parseReleaseDate(rawDate)
	if !ok {
		return unparsedDateStream(movieID, rawDate), nil
	}
	if releaseAt.After(s.now()) {
		return upcomingStream(movieID, releaseAt), nil
	}
	return releasedStream(movieID, releaseAt), nil
}

// parseReleaseDate accepts the timestamp form the provider uses for
// release events as well as a bare calendar date.
func parseReleaseDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func configErrorStream() stremio.Stream {
	return stremio.Stream{
		Name:  streamName,
		Title: "Configuration error: TMDB API key is not set",
	}
}

func errorStream() stremio.Stream {
	return stremio.Stream{
		Name:        streamName,
		Title:       "Error looking up the digital release date",
		ExternalURL: tmdb.HomeURL,
	}
}

func noMatchStream() stremio.Stream {
	return stremio.Stream{
		Name:        streamName,
		Title:       "No TMDB match for this movie",
		ExternalURL: tmdb.HomeURL,
	}
}

func noDigitalDateStream(movieID int) stremio.Stream {
	return stremio.Stream{
		Name:        streamName,
		Title:       "No digital release date listed",
		ExternalURL: tmdb.MovieURL(movieID),
	}
}

func unparsedDateStream(movieID int, rawDate string) stremio.Stream {
	return stremio.Stream{
		Name:        streamName,
		Title:       fmt.Sprintf("Not yet available: %s", rawDate),
		ExternalURL: tmdb.MovieURL(movieID),
	}
}

func releasedStream(movieID int, releaseAt time.Time) stremio.Stream {
	return stremio.Stream{
		Name:        streamName,
		Title:       fmt.Sprintf("Digital release: %s", releaseAt.Format(displayDateFormat)),
		ExternalURL: tmdb.MovieURL(movieID),
	}
}

func upcomingStream(movieID int, releaseAt time.Time) stremio.Stream {
	return stremio.Stream{
		Name:        streamName,
		Title:       fmt.Sprintf("Not available yet: %s", releaseAt.Format(displayDateFormat)),
		ExternalURL: tmdb.MovieURL(movieID),
	}
}
