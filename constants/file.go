package constants

import "strings"

// AllowedExtensions holds the image extensions accepted at the upload boundary.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// MaxUploadMBDefault caps a single uploaded photo unless overridden by config.
const MaxUploadMBDefault = 50

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt reports whether a normalized extension is accepted.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MIMEForExt maps a normalized image extension to its MIME type for data URLs.
// Anything that is not PNG is sent as JPEG, matching the upload gate.
func MIMEForExt(ext string) string {
	if NormalizeExt(ext) == "png" {
		return "image/png"
	}
	return "image/jpeg"
}
