// Package api serves the addon protocol endpoints over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/hossman39/availablityio/pkg/availability"
	"github.com/hossman39/availablityio/pkg/stremio"
)

// AddonHandler handles manifest and stream lookup requests.
type AddonHandler struct {
	svc      *availability.Service
	manifest stremio.Manifest
}

// NewAddonHandler creates a new addon handler.
func NewAddonHandler(svc *availability.Service, manifest stremio.Manifest) *AddonHandler {
	return &AddonHandler{
		svc:      svc,
		manifest: manifest,
	}
}

// Routes returns the router for addon endpoints.
func (h *AddonHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/manifest.json", h.Manifest)
	r.Get("/stream/{type}/{id}", h.Streams)
	return r
}

// Root points bare visits at the manifest.
func (h *AddonHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/manifest.json", http.StatusMovedPermanently)
}

// Health reports liveness.
func (h *AddonHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "OK")
}

// Manifest describes the addon to the host.
func (h *AddonHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.manifest)
}

// Streams answers a stream lookup. Hosts request the id with a
// ".json" suffix; the bare form is accepted too.
func (h *AddonHandler) Streams(w http.ResponseWriter, r *http.Request) {
	mediaType := chi.URLParam(r, "type")
	id := strings.TrimSuffix(chi.URLParam(r, "id"), ".json")

	streams := h.svc.Streams(r.Context(), mediaType, id)

	render.JSON(w, r, stremio.StreamsResponse{Streams: streams})
}
