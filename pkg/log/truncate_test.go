package log

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBodyPassesSmallPayloads(t *testing.T) {
	body := `{"method":"tools/list"}`
	assert.Equal(t, body, TruncateBodyDefault(body))
}

func TestTruncateBodyMarksLargePayloads(t *testing.T) {
	body := strings.Repeat("x", DefaultMaxBodySize+1)

	got := TruncateBodyDefault(body)
	assert.Contains(t, got, "[LARGE_BODY: truncated, size: 2049 bytes")
	assert.Contains(t, got, strings.Repeat("x", DefaultPreviewSize)+"...")
	assert.Less(t, len(got), len(body))
}

func TestTruncateBodyPreviewClampedToBody(t *testing.T) {
	body := strings.Repeat("y", 30)

	got := TruncateBody(body, 10, 500)
	assert.Contains(t, got, "size: 30 bytes")
	assert.Contains(t, got, body)
}
