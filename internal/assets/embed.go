// Package assets embeds the widget's static files: the built-in default
// avatar and sample images served by the development backend.
package assets

import (
	"embed"
	"encoding/base64"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
)

//go:embed static
var staticFS embed.FS

// DefaultAvatarName is the embedded fallback avatar.
const DefaultAvatarName = "default-avatar.svg"

// hashPattern detects content hashes in filenames (e.g. "bot.3f9a1c2e.png").
var hashPattern = regexp.MustCompile(`\.[a-zA-Z0-9_-]{8,}\.`)

// DefaultAvatar returns the raw bytes of the built-in avatar.
func DefaultAvatar() []byte {
	data, err := fs.ReadFile(staticFS, "static/"+DefaultAvatarName)
	if err != nil {
		panic("assets: default avatar missing: " + err.Error())
	}
	return data
}

// DefaultAvatarURL returns the built-in avatar as a data URL, so it can be
// used without any network access.
func DefaultAvatarURL() string {
	return "data:" + MimeFromExt(".svg") + ";base64," + base64.StdEncoding.EncodeToString(DefaultAvatar())
}

func containsHash(p string) bool {
	return hashPattern.MatchString(p)
}

// MimeFromExt returns the MIME type for a file extension.
// Falls back to the standard library's MIME database,
// then to "application/octet-stream" if unknown.
func MimeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".js", ".mjs":
		return "application/javascript"
	case ".css":
		return "text/css; charset=utf-8"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}

// FileServer returns an http.Handler serving the embedded static files.
// Hashed assets get immutable cache headers; unhashed assets get no-cache.
// The handler expects paths relative to the static root (strip /static/
// before calling).
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("assets: failed to create sub filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := path.Ext(r.URL.Path)
		if ext != "" {
			w.Header().Set("Content-Type", MimeFromExt(ext))
		}

		if containsHash(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		fileServer.ServeHTTP(w, r)
	})
}
