package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/ingest"
)

// Envelope is the JSON shape every endpoint responds with. Exactly one of
// the payload fields is set per response.
type Envelope struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message,omitempty"`
	Error     string             `json:"error,omitempty"`
	Count     *int               `json:"count,omitempty"`
	Views     *int64             `json:"views,omitempty"`
	Playlist  *tekmiz.Playlist   `json:"playlist,omitempty"`
	Playlists []*tekmiz.Playlist `json:"playlists,omitempty"`
	Resource  *tekmiz.Resource   `json:"resource,omitempty"`
	Resources []*tekmiz.Resource `json:"resources,omitempty"`

	Results []tekmiz.ReorderResult `json:"results,omitempty"`
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func respond(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	render.Status(r, status)
	render.JSON(w, r, env)
}

// respondError maps a service error onto an HTTP status and the failure
// envelope. Internal detail stays out of the message unless devMode is on.
func respondError(w http.ResponseWriter, r *http.Request, err error, message string, devMode bool) {
	status := statusFor(err)

	env := Envelope{Success: false, Message: message}
	if devMode || status != http.StatusInternalServerError {
		env.Error = err.Error()
	}
	respond(w, r, status, env)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tekmiz.ErrPlaylistNotFound),
		errors.Is(err, tekmiz.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, tekmiz.ErrMissingField),
		errors.Is(err, tekmiz.ErrInvalidCategory),
		errors.Is(err, tekmiz.ErrInvalidResourceType),
		errors.Is(err, tekmiz.ErrMissingThumbnail),
		errors.Is(err, tekmiz.ErrMissingFile),
		errors.Is(err, tekmiz.ErrMissingYoutubeURL),
		errors.Is(err, tekmiz.ErrSizeExceeded):
		return http.StatusBadRequest
	}

	var unsupported *ingest.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
