package console

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetSessionFn resolves the console session for a tool call. The returned
// context carries the trace identifiers of the call.
type GetSessionFn func(ctx context.Context) (context.Context, *Session, error)

// RequiredParam is a helper function that can be used to fetch a requested parameter from the request.
// It does the following checks:
// 1. Checks if the parameter is present in the request.
// 2. Checks if the parameter is of the expected type.
// 3. Checks if the parameter is not empty, i.e: non-zero value
func RequiredParam[T comparable](r mcp.CallToolRequest, p string) (T, error) {
	var zero T

	// Check if the parameter is present in the request
	if _, ok := r.GetArguments()[p]; !ok {
		return zero, fmt.Errorf("missing required parameter: %s", p)
	}

	// Check if the parameter is of the expected type
	val, ok := r.GetArguments()[p].(T)
	if !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T", p, zero)
	}

	if val == zero {
		return zero, fmt.Errorf("missing required parameter: %s", p)
	}

	return val, nil
}

// OptionalParam is a helper function that can be used to fetch a requested parameter from the request.
// It does the following checks:
// 1. Checks if the parameter is present in the request, if not, it returns its zero-value
// 2. If it is present, it checks if the parameter is of the expected type and returns it
func OptionalParam[T any](r mcp.CallToolRequest, p string) (T, error) {
	var zero T

	// Check if the parameter is present in the request
	if _, ok := r.GetArguments()[p]; !ok {
		return zero, nil
	}

	// Check if the parameter is of the expected type
	if _, ok := r.GetArguments()[p].(T); !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T, is %T", p, zero, r.GetArguments()[p])
	}

	return r.GetArguments()[p].(T), nil
}

// RequiredInt fetches a required numeric parameter as an int. JSON numbers
// arrive as float64.
func RequiredInt(r mcp.CallToolRequest, p string) (int, error) {
	v, err := RequiredParam[float64](r, p)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// OptionalInt fetches an optional numeric parameter as an int, zero when
// absent.
func OptionalInt(r mcp.CallToolRequest, p string) (int, error) {
	v, err := OptionalParam[float64](r, p)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// OptionalInt64Ptr fetches an optional numeric parameter as an *int64, nil
// when absent. Assignment tools use it to distinguish "unassign" from a
// concrete id.
func OptionalInt64Ptr(r mcp.CallToolRequest, p string) (*int64, error) {
	if _, ok := r.GetArguments()[p]; !ok {
		return nil, nil
	}
	v, err := OptionalParam[float64](r, p)
	if err != nil {
		return nil, err
	}
	id := int64(v)
	return &id, nil
}

// MarshalledTextResult marshals the given value to JSON and returns it as a text result
func MarshalledTextResult(v any) *mcp.CallToolResult {
	r, _ := json.Marshal(v)
	return mcp.NewToolResultText(string(r))
}

// ToBoolPtr converts a bool to a *bool pointer.
func ToBoolPtr(b bool) *bool {
	return &b
}
