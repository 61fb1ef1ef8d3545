package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename constants
const (
	MaxFilenameLength = 120
	DefaultFileName   = "video"
	DefaultExtension  = "mp4"
)

// MIME to extension mapping for the container types YouTube serves
var mimeExtensions = map[string]string{
	"video/mp4":  "mp4",
	"audio/mp4":  "m4a",
	"video/webm": "webm",
	"audio/webm": "webm",
	"video/3gpp": "3gp",
}

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// SafeFilename builds a cross-platform safe filename from title and extension (without dot)
func SafeFilename(title, ext string) string {
	name := strings.TrimSpace(title)
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultFileName
	}
	if len(name) > MaxFilenameLength {
		name = strings.ToValidUTF8(name[:MaxFilenameLength], "")
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = DefaultExtension
	}
	return name + "." + ext
}

// ExtFromMime returns the file extension (without dot) for a stream MIME type.
// Parameters such as codecs are ignored; unknown types fall back to the subtype.
func ExtFromMime(mime string) string {
	base := strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if ext, ok := mimeExtensions[base]; ok {
		return ext
	}
	if _, sub, ok := strings.Cut(base, "/"); ok && sub != "" {
		return sub
	}
	return DefaultExtension
}

// ReplaceExt swaps the extension of path for ext (with leading dot)
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// CompressedPath returns the output path used for a compressed copy of path
func CompressedPath(path string) string {
	return ReplaceExt(path, "_compressed.mp4")
}

// RemoveFile deletes a file, treating an already missing file as success
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
