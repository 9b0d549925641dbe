package toolsets

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("ok"), nil
}

func testToolset(name string) *Toolset {
	return NewToolset(name, "test toolset").
		AddReadTools(NewServerTool(mcp.NewTool(name+"_read"), noopHandler)).
		AddWriteTools(NewServerTool(mcp.NewTool(name+"_write"), noopHandler))
}

func activeNames(ts *Toolset) []string {
	var names []string
	for _, tool := range ts.GetActiveTools() {
		names = append(names, tool.Tool.Name)
	}
	return names
}

func TestDisabledToolsetExposesNothing(t *testing.T) {
	ts := testToolset("incidents")
	assert.Empty(t, ts.GetActiveTools())
}

func TestEnabledToolsetExposesReadAndWrite(t *testing.T) {
	group := NewToolsetGroup(false)
	group.AddToolset(testToolset("incidents"))
	require.NoError(t, group.EnableToolsets([]string{"incidents"}))

	names := activeNames(group.Toolsets["incidents"])
	assert.ElementsMatch(t, []string{"incidents_read", "incidents_write"}, names)
}

func TestReadOnlyGroupShedsWriteTools(t *testing.T) {
	group := NewToolsetGroup(true)
	group.AddToolset(testToolset("incidents"))
	require.NoError(t, group.EnableToolsets([]string{"incidents"}))

	names := activeNames(group.Toolsets["incidents"])
	assert.Equal(t, []string{"incidents_read"}, names)
}

func TestEnableToolsetsAll(t *testing.T) {
	group := NewToolsetGroup(false)
	group.AddToolset(testToolset("incidents"))
	group.AddToolset(testToolset("comments"))
	require.NoError(t, group.EnableToolsets([]string{"all"}))

	assert.True(t, group.IsEnabled("incidents"))
	assert.True(t, group.IsEnabled("comments"))
}

func TestEnableUnknownToolset(t *testing.T) {
	group := NewToolsetGroup(false)
	group.AddToolset(testToolset("incidents"))

	err := group.EnableToolsets([]string{"nonexistent"})
	assert.ErrorContains(t, err, "toolset nonexistent does not exist")
}
