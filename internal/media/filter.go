package media

import (
	"path/filepath"
	"strings"
)

// allowedExtensions covers the image/video/audio/document categories the
// relay accepts. A file passes the filter when EITHER its extension or
// its reported MIME type matches; photo.heic with MIME image/heic passes
// on both, an .exe with application/octet-stream passes on neither.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".heic": true, ".heif": true, ".bmp": true,

	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".m4v": true, ".3gp": true,

	".mp3": true, ".wav": true, ".m4a": true, ".aac": true,
	".ogg": true, ".opus": true, ".flac": true,

	".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".txt": true,
}

var allowedMimePrefixes = []string{
	"image/",
	"video/",
	"audio/",
}

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
}

// Allowed applies the combined extension-OR-MIME check.
func Allowed(filename, mimetype string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if allowedExtensions[ext] {
		return true
	}

	mimetype = strings.ToLower(strings.TrimSpace(mimetype))
	for _, prefix := range allowedMimePrefixes {
		if strings.HasPrefix(mimetype, prefix) {
			return true
		}
	}
	return allowedMimeTypes[mimetype]
}

// contentTypes is the fixed extension table for static serving. Unknown
// extensions fall back to application/octet-stream; no sniffing.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".bmp":  "image/bmp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".3gp":  "video/3gpp",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
}

// ContentTypeFor resolves the serving content type from the extension.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ctype, ok := contentTypes[ext]; ok {
		return ctype
	}
	return "application/octet-stream"
}
