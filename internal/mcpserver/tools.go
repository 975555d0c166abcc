package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/srclift/srep/rewrite"
)

// FindTool locates pattern matches in source text.
type FindTool struct{}

// NewFindTool creates a new FindTool.
func NewFindTool() *FindTool {
	return &FindTool{}
}

// Definition returns the find_matches tool definition for registration.
func (t *FindTool) Definition() mcp.Tool {
	return mcp.NewTool("find_matches",
		mcp.WithDescription(
			"Find structural matches of a pattern in source text. Patterns are "+
				"plain text with :[name] placeholders that capture bracket-balanced "+
				"spans; :[_] matches without capturing. String and template literal "+
				"contents are skipped. Returns the matches with byte offsets and "+
				"captures as JSON.",
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Source text to scan."),
		),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Match pattern, for example \"console.log(:[args])\"."),
		),
	)
}

// Handle processes one find_matches call.
func (t *FindTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := req.GetString("source", "")
	pattern := req.GetString("pattern", "")

	result, err := rewrite.FindMatches(source, pattern)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

// RewriteTool rewrites matches in source text and returns the result.
type RewriteTool struct{}

// NewRewriteTool creates a new RewriteTool.
func NewRewriteTool() *RewriteTool {
	return &RewriteTool{}
}

// Definition returns the rewrite_source tool definition for registration.
func (t *RewriteTool) Definition() mcp.Tool {
	return mcp.NewTool("rewrite_source",
		mcp.WithDescription(
			"Rewrite every structural match of a pattern in source text. The "+
				"rewrite template may reference captures by name, as in rewriting "+
				"\"f(:[a], :[b])\" to \"g(:[b])\". Returns the rewritten text and "+
				"the list of changes as JSON.",
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Source text to rewrite."),
		),
		mcp.WithString("match",
			mcp.Required(),
			mcp.Description("Match pattern."),
		),
		mcp.WithString("rewrite",
			mcp.Description("Rewrite template. Empty deletes each match."),
		),
	)
}

// Handle processes one rewrite_source call.
func (t *RewriteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := req.GetString("source", "")
	match := req.GetString("match", "")
	target := req.GetString("rewrite", "")

	result, err := rewrite.Transform(source, match, target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

// RewriteFileTool previews or applies a rewrite to a file on disk.
type RewriteFileTool struct{}

// NewRewriteFileTool creates a new RewriteFileTool.
func NewRewriteFileTool() *RewriteFileTool {
	return &RewriteFileTool{}
}

// fileRewriteResponse is the JSON payload returned by rewrite_file.
type fileRewriteResponse struct {
	Path    string           `json:"path"`
	Changes []rewrite.Change `json:"changes"`
	Written bool             `json:"written"`
}

// Definition returns the rewrite_file tool definition for registration.
func (t *RewriteFileTool) Definition() mcp.Tool {
	return mcp.NewTool("rewrite_file",
		mcp.WithDescription(
			"Rewrite every structural match of a pattern in a file. By default "+
				"this is a dry run that only reports the changes; set write to true "+
				"to persist the rewritten file.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to rewrite."),
		),
		mcp.WithString("match",
			mcp.Required(),
			mcp.Description("Match pattern."),
		),
		mcp.WithString("rewrite",
			mcp.Description("Rewrite template. Empty deletes each match."),
		),
		mcp.WithBoolean("write",
			mcp.Description("Persist the rewritten file instead of previewing."),
			mcp.DefaultBool(false),
		),
	)
}

// Handle processes one rewrite_file call.
func (t *RewriteFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	match := req.GetString("match", "")
	target := req.GetString("rewrite", "")
	write := req.GetBool("write", false)

	content, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := rewrite.Transform(string(content), match, target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := fileRewriteResponse{Path: path, Changes: result.Changes}
	if write && len(result.Changes) > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := os.WriteFile(path, []byte(result.Result), info.Mode().Perm()); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		resp.Written = true
	}
	return jsonResult(resp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
