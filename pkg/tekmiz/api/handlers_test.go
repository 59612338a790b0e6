package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/api"
	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/repo/memory"
	memorystorage "github.com/tekmiz/tekmiz-backend/pkg/tekmiz/storage/memory"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc, err := tekmiz.New(
		tekmiz.WithRepository(memory.New()),
		tekmiz.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)

	server := httptest.NewServer(api.NewRouter(svc, api.RouterOptions{DevMode: true}))
	t.Cleanup(server.Close)
	return server
}

type envelope struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Error     string                 `json:"error"`
	Count     *int                   `json:"count"`
	Views     *int64                 `json:"views"`
	Playlist  *tekmiz.Playlist       `json:"playlist"`
	Playlists []tekmiz.Playlist      `json:"playlists"`
	Resource  *tekmiz.Resource       `json:"resource"`
	Resources []tekmiz.Resource      `json:"resources"`
	Results   []tekmiz.ReorderResult `json:"results"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func playlistForm(t *testing.T, fields map[string]string, withThumbnail bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withThumbnail {
		part, err := w.CreatePart(map[string][]string{
			"Content-Disposition": {`form-data; name="thumbnail"; filename="cover.png"`},
			"Content-Type":        {"image/png"},
		})
		require.NoError(t, err)
		_, err = io.Copy(part, strings.NewReader("png bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func createPlaylistViaAPI(t *testing.T, server *httptest.Server) tekmiz.Playlist {
	t.Helper()
	body, contentType := playlistForm(t, map[string]string{
		"title":       "Go from scratch",
		"description": "A gentle introduction",
		"category":    string(tekmiz.CategoryWebDevelopment),
		"author":      "Amina",
		"authorId":    "author-1",
	}, true)

	resp, err := http.Post(server.URL+"/api/playlists", contentType, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)
	require.NotNil(t, env.Playlist)
	return *env.Playlist
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["message"], "running")
}

func TestCreatePlaylistEndpoint(t *testing.T) {
	server := setupTestServer(t)

	t.Run("success", func(t *testing.T) {
		playlist := createPlaylistViaAPI(t, server)
		assert.Equal(t, "Go from scratch", playlist.Title)
		assert.NotEmpty(t, playlist.Thumbnail)
		// Storage keys never leak into the JSON shape
		assert.Empty(t, playlist.ThumbnailKey)
	})

	t.Run("missing field", func(t *testing.T) {
		body, contentType := playlistForm(t, map[string]string{
			"title": "No description",
		}, true)

		resp, err := http.Post(server.URL+"/api/playlists", contentType, body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	})

	t.Run("missing thumbnail", func(t *testing.T) {
		body, contentType := playlistForm(t, map[string]string{
			"title":       "T",
			"description": "D",
			"category":    string(tekmiz.CategoryWebDevelopment),
			"author":      "A",
			"authorId":    "a-1",
		}, false)

		resp, err := http.Post(server.URL+"/api/playlists", contentType, body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPlaylistLifecycleEndpoints(t *testing.T) {
	server := setupTestServer(t)
	client := server.Client()
	playlist := createPlaylistViaAPI(t, server)

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/playlists")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.True(t, env.Success)
		require.NotNil(t, env.Count)
		assert.Equal(t, 1, *env.Count)
		assert.Len(t, env.Playlists, 1)
	})

	t.Run("get", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/playlists/" + playlist.ID.String())
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.NotNil(t, env.Playlist)
		assert.Equal(t, playlist.ID, env.Playlist.ID)
	})

	t.Run("get unknown is 404", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/playlists/" + uuid.NewString())
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		// The message stays neutral; the status code carries the distinction
		// between a missing playlist and a repository failure
		assert.Equal(t, "Failed to fetch playlist", env.Message)
	})

	t.Run("get malformed id is 400", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/playlists/not-a-uuid")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		payload := strings.NewReader(`{"title":"Updated title"}`)
		req, err := http.NewRequest(http.MethodPut, server.URL+"/api/playlists/"+playlist.ID.String(), payload)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.NotNil(t, env.Playlist)
		assert.Equal(t, "Updated title", env.Playlist.Title)
	})

	t.Run("view counter", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/api/playlists/"+playlist.ID.String()+"/view", "", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.NotNil(t, env.Views)
		assert.Equal(t, int64(1), *env.Views)
	})

	t.Run("delete", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/playlists/"+playlist.ID.String(), nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		getResp, err := http.Get(server.URL + "/api/playlists/" + playlist.ID.String())
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
		getResp.Body.Close()
	})
}

func TestResourceEndpoints(t *testing.T) {
	server := setupTestServer(t)
	client := server.Client()
	playlist := createPlaylistViaAPI(t, server)

	createYoutube := func(t *testing.T, title string) tekmiz.Resource {
		t.Helper()
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("type", "youtube"))
		require.NoError(t, w.WriteField("title", title))
		require.NoError(t, w.WriteField("youtubeUrl", "https://youtube.com/watch?v=abc"))
		require.NoError(t, w.WriteField("uploadedBy", "author-1"))
		require.NoError(t, w.Close())

		resp, err := http.Post(
			server.URL+"/api/resources/playlist/"+playlist.ID.String(),
			w.FormDataContentType(), &buf)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.NotNil(t, env.Resource)
		return *env.Resource
	}

	first := createYoutube(t, "Lesson one")
	second := createYoutube(t, "Lesson two")
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)

	t.Run("list in order", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/resources/playlist/" + playlist.ID.String())
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.Len(t, env.Resources, 2)
		assert.Equal(t, "Lesson one", env.Resources[0].Title)
	})

	t.Run("unknown parent is 404", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("type", "youtube"))
		require.NoError(t, w.WriteField("title", "Orphan"))
		require.NoError(t, w.WriteField("youtubeUrl", "https://youtube.com/watch?v=x"))
		require.NoError(t, w.WriteField("uploadedBy", "author-1"))
		require.NoError(t, w.Close())

		resp, err := http.Post(
			server.URL+"/api/resources/playlist/"+uuid.NewString(),
			w.FormDataContentType(), &buf)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("reorder", func(t *testing.T) {
		payload := fmt.Sprintf(`{"resourceOrders":[{"id":%q,"order":2},{"id":%q,"order":1}]}`,
			first.ID, second.ID)
		req, err := http.NewRequest(http.MethodPut,
			server.URL+"/api/resources/playlist/"+playlist.ID.String()+"/reorder",
			strings.NewReader(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.True(t, env.Success)

		listResp, err := http.Get(server.URL + "/api/resources/playlist/" + playlist.ID.String())
		require.NoError(t, err)
		listEnv := decodeEnvelope(t, listResp)
		require.Len(t, listEnv.Resources, 2)
		assert.Equal(t, "Lesson two", listEnv.Resources[0].Title)
	})

	t.Run("partial reorder reports per-item results", func(t *testing.T) {
		payload := fmt.Sprintf(`{"resourceOrders":[{"id":%q,"order":1},{"id":%q,"order":2}]}`,
			first.ID, uuid.New())
		req, err := http.NewRequest(http.MethodPut,
			server.URL+"/api/resources/playlist/"+playlist.ID.String()+"/reorder",
			strings.NewReader(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		require.Len(t, env.Results, 2)
		assert.True(t, env.Results[0].Applied)
		assert.False(t, env.Results[1].Applied)
	})

	t.Run("update and delete", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut,
			server.URL+"/api/resources/"+first.ID.String(),
			strings.NewReader(`{"title":"Renamed"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		env := decodeEnvelope(t, resp)
		require.NotNil(t, env.Resource)
		assert.Equal(t, "Renamed", env.Resource.Title)

		delReq, err := http.NewRequest(http.MethodDelete, server.URL+"/api/resources/"+first.ID.String(), nil)
		require.NoError(t, err)
		delResp, err := client.Do(delReq)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, delResp.StatusCode)
		delResp.Body.Close()

		getResp, err := http.Get(server.URL + "/api/resources/" + first.ID.String())
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
		getResp.Body.Close()
	})
}

func TestOversizedUploadEndpoint(t *testing.T) {
	store := memorystorage.New()
	svc, err := tekmiz.New(
		tekmiz.WithRepository(memory.New()),
		tekmiz.WithBlobStore(store),
		tekmiz.WithIngestor(tekmiz.NewIngestor(store, tekmiz.WithMaxFileBytes(8))),
	)
	require.NoError(t, err)

	server := httptest.NewServer(api.NewRouter(svc, api.RouterOptions{DevMode: true}))
	t.Cleanup(server.Close)

	body, contentType := playlistForm(t, map[string]string{
		"title":       "Go from scratch",
		"description": "A gentle introduction",
		"category":    string(tekmiz.CategoryWebDevelopment),
		"author":      "Amina",
		"authorId":    "author-1",
	}, true)

	resp, err := http.Post(server.URL+"/api/playlists", contentType, body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "size")
	assert.Equal(t, 0, store.Len())
}

func TestUnknownRouteEnvelope(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/unknown")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)
}

func TestRequestIDHeader(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "fixed-id")
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "fixed-id", resp.Header.Get("X-Request-ID"))
}
