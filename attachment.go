package imagechat

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// MaxAttachmentSize is the largest reference image accepted, in bytes.
const MaxAttachmentSize = 20 * 1024 * 1024

var supportedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
	"image/heic": true,
	"image/heif": true,
}

// Attachment is a reference image picked from the local filesystem.
// MimeType may be empty, in which case it is derived from the file.
type Attachment struct {
	Path     string
	MimeType string
}

// Name returns the base name of the attached file.
func (a Attachment) Name() string {
	return filepath.Base(a.Path)
}

// Preview returns a local image reference for display in the user's message.
// The file is not read.
func (a Attachment) Preview() Image {
	p := a.Path
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	mt := a.MimeType
	if mt == "" {
		mt = MimeTypeFromPath(a.Path)
	}
	return Image{URL: u.String(), MimeType: mt}
}

// Encode reads the file and returns its base64 payload and MIME type.
// All failures are reported as *FileReadError.
func (a Attachment) Encode() (string, string, error) {
	info, err := os.Stat(a.Path)
	if err != nil {
		return "", "", &FileReadError{Path: a.Path, Err: err}
	}
	if info.IsDir() {
		return "", "", &FileReadError{Path: a.Path, Err: fmt.Errorf("is a directory: %w", ErrUnsupportedImage)}
	}
	if info.Size() > MaxAttachmentSize {
		return "", "", &FileReadError{
			Path: a.Path,
			Err:  fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, info.Size(), MaxAttachmentSize),
		}
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return "", "", &FileReadError{Path: a.Path, Err: err}
	}
	if len(data) == 0 {
		return "", "", &FileReadError{Path: a.Path, Err: fmt.Errorf("empty file: %w", ErrUnsupportedImage)}
	}

	mt := a.MimeType
	if mt == "" {
		mt = MimeTypeFromPath(a.Path)
	}
	if mt == "" {
		mt = http.DetectContentType(data)
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = mt[:i]
		}
	}
	if !supportedImageTypes[mt] {
		return "", "", &FileReadError{Path: a.Path, Err: fmt.Errorf("%w: %s", ErrUnsupportedImage, mt)}
	}
	return base64.StdEncoding.EncodeToString(data), mt, nil
}

// MimeTypeFromPath guesses an image MIME type from the file extension.
// It returns "" for unknown extensions.
func MimeTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return ""
	}
}
