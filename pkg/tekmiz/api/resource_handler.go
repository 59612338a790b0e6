package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
)

// ResourceHandler handles resource API endpoints
type ResourceHandler struct {
	service tekmiz.Service
	devMode bool
}

func NewResourceHandler(service tekmiz.Service, devMode bool) *ResourceHandler {
	return &ResourceHandler{service: service, devMode: devMode}
}

// Routes returns the router for resource endpoints
func (h *ResourceHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/playlist/{playlistId}", h.CreateResource)
	r.Get("/playlist/{playlistId}", h.ListResources)
	r.Put("/playlist/{playlistId}/reorder", h.ReorderResources)
	r.Get("/{id}", h.GetResource)
	r.Put("/{id}", h.UpdateResource)
	r.Delete("/{id}", h.DeleteResource)
	return r
}

// CreateResource attaches a resource to a playlist. File-backed types carry
// a multipart "file" part; youtube resources carry a youtubeUrl field instead.
func (h *ResourceHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := parseID(w, r, "playlistId")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		respond(w, r, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Invalid multipart form",
			Error:   err.Error(),
		})
		return
	}

	req := tekmiz.CreateResourceRequest{
		PlaylistID:  playlistID,
		Type:        tekmiz.ResourceType(r.FormValue("type")),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		YoutubeURL:  r.FormValue("youtubeUrl"),
		Duration:    r.FormValue("duration"),
		UploadedBy:  r.FormValue("uploadedBy"),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		req.File = &tekmiz.FileUpload{
			Reader:      file,
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			FieldName:   "file",
		}
	}

	resource, err := h.service.CreateResource(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create resource",
			"playlist_id", playlistID.String(), "type", string(req.Type), "error", err)
		respondError(w, r, err, "Failed to add resource", h.devMode)
		return
	}

	slog.Info("Resource created",
		"resource_id", resource.ID.String(),
		"playlist_id", playlistID.String(),
		"order", resource.Order)
	respond(w, r, http.StatusCreated, Envelope{
		Success:  true,
		Message:  "Resource added successfully",
		Resource: resource,
	})
}

// ListResources returns the resources of a playlist in display order
func (h *ResourceHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := parseID(w, r, "playlistId")
	if !ok {
		return
	}

	resources, err := h.service.ListResourcesByPlaylist(r.Context(), playlistID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch resources", h.devMode)
		return
	}

	count := len(resources)
	respond(w, r, http.StatusOK, Envelope{
		Success:   true,
		Count:     &count,
		Resources: resources,
	})
}

// GetResource returns a single resource by ID
func (h *ResourceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	resource, err := h.service.GetResource(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Failed to fetch resource", h.devMode)
		return
	}

	respond(w, r, http.StatusOK, Envelope{Success: true, Resource: resource})
}

// UpdateResource updates resource metadata; empty fields are left unchanged
func (h *ResourceHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Order       *int   `json:"order"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respond(w, r, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	resource, err := h.service.UpdateResource(r.Context(), tekmiz.UpdateResourceRequest{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
		Order:       body.Order,
	})
	if err != nil {
		slog.Error("Failed to update resource", "resource_id", id.String(), "error", err)
		respondError(w, r, err, "Failed to update resource", h.devMode)
		return
	}

	respond(w, r, http.StatusOK, Envelope{
		Success:  true,
		Message:  "Resource updated successfully",
		Resource: resource,
	})
}

// DeleteResource removes a resource, its stored file, and refreshes the
// parent playlist's resource count
func (h *ResourceHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteResource(r.Context(), id); err != nil {
		slog.Error("Failed to delete resource", "resource_id", id.String(), "error", err)
		respondError(w, r, err, "Failed to delete resource", h.devMode)
		return
	}

	slog.Info("Resource deleted", "resource_id", id.String())
	respond(w, r, http.StatusOK, Envelope{
		Success: true,
		Message: "Resource deleted successfully",
	})
}

// ReorderResources applies a batch of order assignments. Items are applied
// independently; a partially applied batch comes back with success=false and
// the per-item outcomes.
func (h *ResourceHandler) ReorderResources(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := parseID(w, r, "playlistId")
	if !ok {
		return
	}

	var body struct {
		ResourceOrders []struct {
			ID    string `json:"id"`
			Order int    `json:"order"`
		} `json:"resourceOrders"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respond(w, r, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}
	if len(body.ResourceOrders) == 0 {
		respond(w, r, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "resourceOrders must not be empty",
		})
		return
	}

	items := make([]tekmiz.ReorderItem, 0, len(body.ResourceOrders))
	for _, ro := range body.ResourceOrders {
		id, err := uuid.Parse(ro.ID)
		if err != nil {
			respond(w, r, http.StatusBadRequest, Envelope{
				Success: false,
				Message: "Invalid resource ID in resourceOrders",
				Error:   "invalid UUID: " + ro.ID,
			})
			return
		}
		items = append(items, tekmiz.ReorderItem{ID: id, Order: ro.Order})
	}

	results, err := h.service.ReorderResources(r.Context(), tekmiz.ReorderResourcesRequest{
		PlaylistID: playlistID,
		Items:      items,
	})
	if err != nil {
		if errors.Is(err, tekmiz.ErrPartialBatch) {
			slog.Warn("Reorder partially applied",
				"playlist_id", playlistID.String(), "items", len(items))
			respond(w, r, http.StatusOK, Envelope{
				Success: false,
				Message: "Some resources could not be reordered",
				Results: results,
			})
			return
		}
		slog.Error("Failed to reorder resources", "playlist_id", playlistID.String(), "error", err)
		respondError(w, r, err, "Failed to reorder resources", h.devMode)
		return
	}

	respond(w, r, http.StatusOK, Envelope{
		Success: true,
		Message: "Resources reordered successfully",
	})
}
