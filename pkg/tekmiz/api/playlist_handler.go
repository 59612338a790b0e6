package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
)

// multipartMemoryLimit is the in-memory buffer for multipart form fields;
// file parts beyond it spill to temp files.
const multipartMemoryLimit = 32 << 20

// PlaylistHandler handles playlist API endpoints
type PlaylistHandler struct {
	service tekmiz.Service
	devMode bool
}

func NewPlaylistHandler(service tekmiz.Service, devMode bool) *PlaylistHandler {
	return &PlaylistHandler{service: service, devMode: devMode}
}

// Routes returns the router for playlist endpoints
func (h *PlaylistHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreatePlaylist)
	r.Get("/", h.ListPlaylists)
	r.Get("/{id}", h.GetPlaylist)
	r.Put("/{id}", h.UpdatePlaylist)
	r.Delete("/{id}", h.DeletePlaylist)
	r.Post("/{id}/view", h.IncrementViews)
	return r
}

// CreatePlaylist creates a playlist from a multipart form carrying the
// metadata fields and a thumbnail image
func (h *PlaylistHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		respond(w, r, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Invalid multipart form",
			Error:   err.Error(),
		})
		return
	}

	req := tekmiz.CreatePlaylistRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    tekmiz.Category(r.FormValue("category")),
		Author:      r.FormValue("author"),
		AuthorID:    r.FormValue("authorId"),
	}

	file, header, err := r.FormFile("thumbnail")
	if err == nil {
		defer file.Close()
		req.Thumbnail = &tekmiz.FileUpload{
			Reader:      file,
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			FieldName:   "thumbnail",
		}
	}

	playlist, err := h.service.CreatePlaylist(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create playlist", "title", req.Title, "error", err)
		respondError(w, r, err, "Failed to create playlist", h.devMode)
		return
	}

	slog.Info("Playlist created", "playlist_id", playlist.ID.String(), "author_id", playlist.AuthorID)
	respond(w, r, http.StatusCreated, Envelope{
		Success:  true,
		Message:  "Playlist created successfully",
		Playlist: playlist,
	})
}

// ListPlaylists lists playlists, optionally filtered by category, author
// or a title search term
func (h *PlaylistHandler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	req := tekmiz.ListPlaylistsRequest{
		Category: tekmiz.Category(r.URL.Query().Get("category")),
		AuthorID: r.URL.Query().Get("authorId"),
		Search:   r.URL.Query().Get("search"),
	}

	playlists, err := h.service.ListPlaylists(r.Context(), req)
	if err != nil {
		slog.Error("Failed to list playlists", "error", err)
		respondError(w, r, err, "Failed to fetch playlists", h.devMode)
		return
	}

	count := len(playlists)
	respond(w, r, http.StatusOK, Envelope{
		Success:   true,
		Count:     &count,
		Playlists: playlists,
	})
}

// GetPlaylist returns a single playlist by ID
func (h *PlaylistHandler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	playlist, err := h.service.GetPlaylist(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Failed to fetch playlist", h.devMode)
		return
	}

	respond(w, r, http.StatusOK, Envelope{Success: true, Playlist: playlist})
}

// UpdatePlaylist updates playlist metadata; empty fields are left unchanged
func (h *PlaylistHandler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respond(w, r, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	playlist, err := h.service.UpdatePlaylist(r.Context(), tekmiz.UpdatePlaylistRequest{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
		Category:    tekmiz.Category(body.Category),
	})
	if err != nil {
		slog.Error("Failed to update playlist", "playlist_id", id.String(), "error", err)
		respondError(w, r, err, "Failed to update playlist", h.devMode)
		return
	}

	respond(w, r, http.StatusOK, Envelope{
		Success:  true,
		Message:  "Playlist updated successfully",
		Playlist: playlist,
	})
}

// DeletePlaylist deletes a playlist together with its resources and their
// stored files
func (h *PlaylistHandler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePlaylist(r.Context(), id); err != nil {
		slog.Error("Failed to delete playlist", "playlist_id", id.String(), "error", err)
		respondError(w, r, err, "Failed to delete playlist", h.devMode)
		return
	}

	slog.Info("Playlist deleted", "playlist_id", id.String())
	respond(w, r, http.StatusOK, Envelope{
		Success: true,
		Message: "Playlist and associated resources deleted successfully",
	})
}

// IncrementViews bumps the playlist view counter and returns the new value
func (h *PlaylistHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	views, err := h.service.IncrementPlaylistViews(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Failed to update views", h.devMode)
		return
	}

	respond(w, r, http.StatusOK, Envelope{Success: true, Views: &views})
}

// parseID parses a UUID path parameter, writing the 400 envelope on failure
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		slog.Warn("Invalid ID in path", "param", param, "value", raw)
		respond(w, r, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Invalid ID",
			Error:   "invalid UUID: " + raw,
		})
		return uuid.Nil, false
	}
	return id, true
}
