package mcp

import "github.com/mark3labs/mcp-go/mcp"

// ToolDefinition names an MCP tool exposed by the server.
type ToolDefinition struct {
	Name        string
	Description string
}

// RegisteredTools returns the tools the server exposes.
func RegisteredTools() []ToolDefinition {
	return []ToolDefinition{
		{Name: "list_components", Description: "Lists scanned components with their file and prop count"},
		{Name: "get_component_props", Description: "Resolved props of one component: type, literal, required, description"},
		{Name: "synthesize_value", Description: "Placeholder literal for a react-docgen tsType record"},
		{Name: "render_snippet", Description: "JSX usage snippet for a component with generated prop values"},
		{Name: "validate_usage", Description: "Checks JSX usages of scanned components for unknown and missing props"},
		{Name: "analyze_usage", Description: "Compact summary of the components a page uses"},
	}
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("Lists scanned components with their file and prop count. Optionally filter by a case-insensitive keyword matched against the name and path."),
		mcp.WithString("keyword", mcp.Description("Substring to filter component names and paths")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getComponentPropsTool() mcp.Tool {
	return mcp.NewTool("get_component_props",
		mcp.WithDescription("Returns every resolved prop of a component: name, type, generated literal, required flag, description and where the literal came from."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name, e.g. Button")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func synthesizeValueTool() mcp.Tool {
	return mcp.NewTool("synthesize_value",
		mcp.WithDescription("Synthesizes a placeholder literal for a prop type given as react-docgen tsType JSON. A declared default is used when it is constant source."),
		mcp.WithString("type", mcp.Required(), mcp.Description(`tsType JSON, e.g. {"name":"union","elements":[{"name":"literal","value":"'a'"}]}`)),
		mcp.WithBoolean("required", mcp.Description("Whether the prop is required")),
		mcp.WithString("name", mcp.Description("Prop name; children gets special handling")),
		mcp.WithString("default", mcp.Description("Declared default value source text")),
		mcp.WithBoolean("computed", mcp.Description("Whether the default is computed at run time")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func renderSnippetTool() mcp.Tool {
	return mcp.NewTool("render_snippet",
		mcp.WithDescription("Renders a JSX usage snippet for a component with a generated value for every prop."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name, e.g. Button")),
		mcp.WithBoolean("with_comments", mcp.Description("Annotate each prop with required/optional and its description")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func validateUsageTool() mcp.Tool {
	return mcp.NewTool("validate_usage",
		mcp.WithDescription("Validates TSX code against the scanned components: undeclared props, missing required props and missing imports. With auto_fix, missing required props are inserted with their generated literal."),
		mcp.WithString("code", mcp.Required(), mcp.Description("TSX source to validate")),
		mcp.WithBoolean("auto_fix", mcp.Description("Return fixed_code with missing required props filled in")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func analyzeUsageTool() mcp.Tool {
	return mcp.NewTool("analyze_usage",
		mcp.WithDescription("Summarizes the component usages of TSX code: names, lines, props passed and child counts."),
		mcp.WithString("code", mcp.Required(), mcp.Description("TSX source to analyze")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
