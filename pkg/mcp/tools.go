package mcp

import "github.com/mark3labs/mcp-go/mcp"

func convertSourceTool() mcp.Tool {
	return mcp.NewTool("convert_source",
		mcp.WithDescription("Convert ESM import/export syntax in the given source to a define() loader call and return the rewritten source."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("JavaScript or TypeScript module source text"),
		),
		mcp.WithString("language",
			mcp.Description("Source language: 'javascript' (default) or 'typescript'"),
		),
		mcp.WithBoolean("tsx",
			mcp.Description("Parse TypeScript source as TSX"),
		),
	)
}

func convertFileTool() mcp.Tool {
	return mcp.NewTool("convert_file",
		mcp.WithDescription("Convert the file at the given path and return the rewritten source. Set write to overwrite the file in place."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a .js/.jsx/.mjs/.ts/.tsx file"),
		),
		mcp.WithBoolean("write",
			mcp.Description("Overwrite the file with the converted output"),
		),
	)
}

func listDependenciesTool() mcp.Tool {
	return mcp.NewTool("list_dependencies",
		mcp.WithDescription("Report the loader dependencies the module's imports resolve to, as JSON, without converting. Takes either source text or a file path."),
		mcp.WithString("source",
			mcp.Description("JavaScript or TypeScript module source text"),
		),
		mcp.WithString("path",
			mcp.Description("Path to a module file; the language follows the extension"),
		),
		mcp.WithString("language",
			mcp.Description("Source language: 'javascript' (default) or 'typescript'"),
		),
		mcp.WithBoolean("tsx",
			mcp.Description("Parse TypeScript source as TSX"),
		),
	)
}
