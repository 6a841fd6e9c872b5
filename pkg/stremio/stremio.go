// Package stremio holds the wire types of the Stremio addon protocol
// that this service speaks: the addon manifest and the stream objects
// returned from a stream lookup.
//
// Only the subset of the protocol used by this addon is modelled. Field
// names follow the protocol's camelCase JSON convention.
package stremio

// Content type constants understood by Stremio hosts.
const (
	TypeMovie  = "movie"
	TypeSeries = "series"
)

// Manifest describes an addon to a Stremio host: what resources it
// serves, for which content types, and which id prefixes it can
// resolve.
type Manifest struct {
	ID          string        `json:"id"`
	Version     string        `json:"version"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Resources   []string      `json:"resources"`
	Types       []string      `json:"types"`
	IDPrefixes  []string      `json:"idPrefixes,omitempty"`
	Catalogs    []CatalogItem `json:"catalogs"`
}

// CatalogItem identifies one catalog an addon offers. This addon offers
// none, but the manifest field must still be present (as an empty list)
// for hosts to accept the manifest.
type CatalogItem struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Stream is a single entry in a stream lookup response. Hosts render
// Name and Title and, when ExternalURL is set, open it in the user's
// browser instead of playing anything.
type Stream struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`
}

// StreamsResponse is the body of a stream lookup response.
type StreamsResponse struct {
	Streams []Stream `json:"streams"`
}
