// Package trace carries W3C Trace Context identifiers between the MCP
// surface, the logs, and outgoing tracker requests, so one console action can
// be followed across the backend boundary.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

const (
	TraceparentHeader = "traceparent"
	TracestateHeader  = "tracestate"
)

// TraceContext holds the W3C Trace Context fields of one operation.
// See https://www.w3.org/TR/trace-context/.
type TraceContext struct {
	TraceID    string // 32 hex characters
	SpanID     string // 16 hex characters
	TraceFlags byte
	TraceState string
}

type contextKey struct{}

var traceContextKey = contextKey{}

// New generates a TraceContext with random trace and span IDs, sampled.
func New() (*TraceContext, error) {
	traceID, err := randomHex(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate trace ID: %w", err)
	}
	spanID, err := randomHex(8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate span ID: %w", err)
	}
	return &TraceContext{TraceID: traceID, SpanID: spanID, TraceFlags: 0x01}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ParseTraceparent parses a traceparent header value of the form
// {version}-{trace-id}-{parent-id}-{trace-flags}.
func ParseTraceparent(header string) (*TraceContext, bool) {
	parts := strings.Split(header, "-")
	if len(parts) != 4 || parts[0] != "00" {
		return nil, false
	}

	traceID, spanID, flagsStr := parts[1], parts[2], parts[3]
	if len(traceID) != 32 || !validHexID(traceID) {
		return nil, false
	}
	if len(spanID) != 16 || !validHexID(spanID) {
		return nil, false
	}

	flags, err := hex.DecodeString(flagsStr)
	if err != nil || len(flags) != 1 {
		return nil, false
	}

	return &TraceContext{TraceID: traceID, SpanID: spanID, TraceFlags: flags[0]}, true
}

// validHexID reports whether s is lowercase hex and not all zeros.
func validHexID(s string) bool {
	nonZero := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			nonZero = nonZero || c != '0'
		case c >= 'a' && c <= 'f':
			nonZero = true
		default:
			return false
		}
	}
	return nonZero
}

// ToTraceparent formats tc as a traceparent header value.
func (tc *TraceContext) ToTraceparent() string {
	return fmt.Sprintf("00-%s-%s-%02x", tc.TraceID, tc.SpanID, tc.TraceFlags)
}

// SetHTTPHeaders writes the trace headers onto an outgoing request.
func (tc *TraceContext) SetHTTPHeaders(headers http.Header) {
	headers.Set(TraceparentHeader, tc.ToTraceparent())
	if tc.TraceState != "" {
		headers.Set(TracestateHeader, tc.TraceState)
	}
}

// FromHTTPHeaders extracts a TraceContext from incoming headers, or nil.
func FromHTTPHeaders(headers http.Header) *TraceContext {
	tc, ok := ParseTraceparent(headers.Get(TraceparentHeader))
	if !ok {
		return nil
	}
	tc.TraceState = headers.Get(TracestateHeader)
	return tc
}

// ContextWith attaches tc to the context.
func ContextWith(ctx context.Context, tc *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey, tc)
}

// FromContext returns the TraceContext attached to ctx, or nil.
func FromContext(ctx context.Context) *TraceContext {
	tc, _ := ctx.Value(traceContextKey).(*TraceContext)
	return tc
}

// EnsureContext returns ctx with a TraceContext attached, generating one when
// absent. The second return is the context's TraceContext.
func EnsureContext(ctx context.Context) (context.Context, *TraceContext) {
	if tc := FromContext(ctx); tc != nil {
		return ctx, tc
	}
	tc, err := New()
	if err != nil {
		return ctx, nil
	}
	return ContextWith(ctx, tc), tc
}
