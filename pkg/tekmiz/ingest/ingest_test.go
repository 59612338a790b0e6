package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/ingest"
)

func TestValidateContentType(t *testing.T) {
	for _, ct := range ingest.AllowedTypes() {
		assert.NoError(t, ingest.ValidateContentType(ct), ct)
	}

	err := ingest.ValidateContentType("application/x-msdownload")
	require.Error(t, err)
	var unsupported *ingest.UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "application/x-msdownload", unsupported.ContentType)
	assert.Contains(t, err.Error(), "only images, videos, PDFs, and PPTs are allowed")
}

func TestFolderFor(t *testing.T) {
	tests := []struct {
		contentType string
		folder      string
	}{
		{"image/jpeg", ingest.FolderThumbnails},
		{"image/png", ingest.FolderThumbnails},
		{"image/webp", ingest.FolderThumbnails},
		{"video/mp4", ingest.FolderVideos},
		{"video/webm", ingest.FolderVideos},
		{"video/quicktime", ingest.FolderVideos},
		{"application/pdf", ingest.FolderPDFs},
		{"application/vnd.openxmlformats-officedocument.presentationml.presentation", ingest.FolderPresentations},
		// Legacy .ppt declares no "presentation" in its MIME type and lands
		// in the catch-all folder
		{"application/vnd.ms-powerpoint", ingest.FolderOthers},
		{"text/plain", ingest.FolderOthers},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.folder, ingest.FolderFor(tt.contentType))
		})
	}
}

func TestNewObjectKey(t *testing.T) {
	key := ingest.NewObjectKey("image/png", "My Cover.PNG")

	assert.True(t, strings.HasPrefix(key, ingest.FolderThumbnails+"/"))
	// Extension is preserved lowercased
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	// Keys are unique even for identical inputs
	other := ingest.NewObjectKey("image/png", "My Cover.PNG")
	assert.NotEqual(t, key, other)
}

func TestNewObjectKeyWithoutExtension(t *testing.T) {
	key := ingest.NewObjectKey("application/pdf", "report")
	assert.True(t, strings.HasPrefix(key, ingest.FolderPDFs+"/"))
	assert.False(t, strings.Contains(key, "."), key)
}
