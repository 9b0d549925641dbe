// Package toolsets groups MCP tools into named, individually enableable
// toolsets with a read/write split, so a server can be narrowed to a subset
// of its surface or run read-only.
package toolsets

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServerTool pairs a tool definition with its handler.
func NewServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{Tool: tool, Handler: handler}
}

// Toolset is a named group of related tools. Write tools are dropped when
// the toolset runs read-only.
type Toolset struct {
	Name        string
	Description string
	Enabled     bool
	readOnly    bool
	writeTools  []server.ServerTool
	readTools   []server.ServerTool
}

// NewToolset creates a disabled toolset.
func NewToolset(name string, description string) *Toolset {
	return &Toolset{
		Name:        name,
		Description: description,
	}
}

// AddReadTools appends read-only tools to the toolset.
func (t *Toolset) AddReadTools(tools ...server.ServerTool) *Toolset {
	t.readTools = append(t.readTools, tools...)
	return t
}

// AddWriteTools appends mutating tools to the toolset.
func (t *Toolset) AddWriteTools(tools ...server.ServerTool) *Toolset {
	t.writeTools = append(t.writeTools, tools...)
	return t
}

// GetActiveTools returns the tools the toolset currently exposes.
func (t *Toolset) GetActiveTools() []server.ServerTool {
	if !t.Enabled {
		return nil
	}
	if t.readOnly {
		return t.readTools
	}
	return append(append([]server.ServerTool{}, t.readTools...), t.writeTools...)
}

// RegisterTools adds the active tools to the MCP server.
func (t *Toolset) RegisterTools(s *server.MCPServer) {
	if !t.Enabled {
		return
	}
	for _, tool := range t.GetActiveTools() {
		s.AddTool(tool.Tool, tool.Handler)
	}
}

// ToolsetGroup is the full tool surface of a server, keyed by toolset name.
type ToolsetGroup struct {
	Toolsets     map[string]*Toolset
	everythingOn bool
	readOnly     bool
}

// NewToolsetGroup creates an empty group. With readOnly set, every toolset
// added to it sheds its write tools.
func NewToolsetGroup(readOnly bool) *ToolsetGroup {
	return &ToolsetGroup{
		Toolsets: make(map[string]*Toolset),
		readOnly: readOnly,
	}
}

// AddToolset adds a toolset to the group, inheriting the group's read-only
// mode.
func (tg *ToolsetGroup) AddToolset(ts *Toolset) {
	ts.readOnly = tg.readOnly
	tg.Toolsets[ts.Name] = ts
}

// IsEnabled reports whether a toolset is currently enabled.
func (tg *ToolsetGroup) IsEnabled(name string) bool {
	if tg.everythingOn {
		return true
	}
	ts, ok := tg.Toolsets[name]
	return ok && ts.Enabled
}

// EnableToolsets enables the named toolsets. The special name "all" enables
// every toolset in the group.
func (tg *ToolsetGroup) EnableToolsets(names []string) error {
	for _, name := range names {
		if name == "all" {
			tg.everythingOn = true
			continue
		}
		if err := tg.EnableToolset(name); err != nil {
			return err
		}
	}
	if tg.everythingOn {
		for name := range tg.Toolsets {
			if err := tg.EnableToolset(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// EnableToolset enables a single toolset by name.
func (tg *ToolsetGroup) EnableToolset(name string) error {
	ts, ok := tg.Toolsets[name]
	if !ok {
		return fmt.Errorf("toolset %s does not exist", name)
	}
	ts.Enabled = true
	return nil
}

// RegisterTools registers every enabled toolset's active tools on the server.
func (tg *ToolsetGroup) RegisterTools(s *server.MCPServer) {
	for _, ts := range tg.Toolsets {
		ts.RegisterTools(s)
	}
}
