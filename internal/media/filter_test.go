package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimetype string
		want     bool
	}{
		{"jpeg photo", "photo.jpg", "image/jpeg", true},
		{"heic with odd mimetype", "photo.heic", "application/octet-stream", true},
		{"unknown extension with image mimetype", "blob.raw", "image/x-canon-cr2", true},
		{"video", "clip.mp4", "video/mp4", true},
		{"voice note", "note.m4a", "audio/mp4", true},
		{"pdf document", "invoice.pdf", "application/pdf", true},
		{"executable", "malware.exe", "application/octet-stream", false},
		{"archive", "backup.zip", "application/zip", false},
		{"script with text mimetype", "run.sh", "application/x-sh", false},
		{"no extension no mimetype", "mystery", "", false},
		{"case insensitive extension", "PHOTO.JPG", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.filename, tt.mimetype))
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpeg"))
	assert.Equal(t, "video/mp4", ContentTypeFor("a.mp4"))
	assert.Equal(t, "application/pdf", ContentTypeFor("a.pdf"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a.unknown"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("noext"))
}
