package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

// fakeTracker is a mock incident tracker backend. Responses are keyed by
// "METHOD /path" (falling back to bare "/path"); string values answer as
// plain text, everything else as JSON. Prefixing a key with "error:" makes
// the endpoint answer 500 with the value as body.
type fakeTracker struct {
	mu        sync.Mutex
	hits      map[string]int
	responses map[string]interface{}
}

func (f *fakeTracker) hitCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeTracker) setResponse(key string, response interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = response
}

func (f *fakeTracker) lookup(key string) (interface{}, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if response, exists := f.responses[key]; exists {
		return response, http.StatusOK, true
	}
	if response, exists := f.responses["error:"+key]; exists {
		return response, http.StatusInternalServerError, true
	}
	return nil, 0, false
}

func (f *fakeTracker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.hits[key]++
	f.mu.Unlock()

	for _, k := range []string{key, r.URL.Path} {
		if response, status, ok := f.lookup(k); ok {
			writeMockResponse(w, status, response)
			return
		}
	}

	http.NotFound(w, r)
}

func writeMockResponse(w http.ResponseWriter, status int, response interface{}) {
	if text, ok := response.(string); ok {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(text))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// testServer creates a mock tracker backend for testing.
func testServer(t *testing.T, responses map[string]interface{}) (*httptest.Server, *fakeTracker) {
	t.Helper()

	backend := &fakeTracker{
		hits:      make(map[string]int),
		responses: responses,
	}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return server, backend
}

// testSession creates a console session against a mock backend.
func testSession(t *testing.T, responses map[string]interface{}) (*Session, *fakeTracker) {
	t.Helper()

	server, backend := testServer(t, responses)
	client, err := tracker.NewClient(server.URL, "test-token", "test-agent")
	require.NoError(t, err)
	return NewSession(client), backend
}

// testSetup provides the session resolver used by tool handler tests.
func testSetup(t *testing.T, responses map[string]interface{}) (GetSessionFn, *fakeTracker) {
	t.Helper()

	session, backend := testSession(t, responses)
	getSession := func(ctx context.Context) (context.Context, *Session, error) {
		return ctx, session, nil
	}
	return getSession, backend
}

// createMCPRequest is a helper function to create a MCP request with the given arguments.
func createMCPRequest(args any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// getTextResult is a helper function that returns a text result from a tool call.
func getTextResult(t *testing.T, result *mcp.CallToolResult) mcp.TextContent {
	t.Helper()
	assert.NotNil(t, result)
	require.Len(t, result.Content, 1)
	require.IsType(t, mcp.TextContent{}, result.Content[0])
	textContent := result.Content[0].(mcp.TextContent)
	assert.Equal(t, "text", textContent.Type)
	return textContent
}

func filterNone() tracker.IncidentFilter {
	return tracker.IncidentFilter{}
}

// incidentFixture builds a JSON-friendly incident for mock responses.
func incidentFixture(id int, number, title string) map[string]interface{} {
	return map[string]interface{}{
		"id":             id,
		"incidentNumber": number,
		"title":          title,
		"description":    "Something broke and users noticed it rather quickly this morning",
		"severityLevel":  "Medium",
		"status":         "Open",
		"createdBy":      "reporter",
		"createdAt":      "2024-03-21T14:30:00Z",
	}
}

// incidentFixtures builds n sequential incidents.
func incidentFixtures(n int) []interface{} {
	out := make([]interface{}, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, incidentFixture(i, "INC-2024-"+pad4(i), "Incident number "+pad4(i)))
	}
	return out
}

func pad4(n int) string {
	digits := []byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits)
}
