package log

import "fmt"

const (
	// DefaultMaxBodySize is the maximum size for logged payloads before truncation.
	DefaultMaxBodySize = 2048
	// DefaultPreviewSize is the preview shown for truncated payloads.
	DefaultPreviewSize = 500
)

// TruncateBody returns body unchanged when it fits within maxSize, otherwise
// a marker of the form [LARGE_BODY: truncated, size: N bytes, preview: ...].
// Command logging runs every stdio frame through this so a full incident list
// does not flood the log file.
func TruncateBody(body string, maxSize, previewSize int) string {
	bodyLen := len(body)
	if bodyLen <= maxSize {
		return body
	}

	if previewSize > bodyLen {
		previewSize = bodyLen
	} else if previewSize > maxSize {
		previewSize = maxSize
	}

	return fmt.Sprintf("[LARGE_BODY: truncated, size: %d bytes, preview: %s...]",
		bodyLen, body[:previewSize])
}

// TruncateBodyDefault truncates a payload using the default size limits.
func TruncateBodyDefault(body string) string {
	return TruncateBody(body, DefaultMaxBodySize, DefaultPreviewSize)
}
