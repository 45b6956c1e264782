package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"amdify/pkg/parser"
)

func (s *Server) handleConvertSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lang, tsx, err := requestLanguage(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.transformer.TransformSource([]byte(source), lang, tsx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversion failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleConvertFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.transformer.TransformFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversion failed: %v", err)), nil
	}

	if req.GetBool("write", false) {
		// Release the mapped source before overwriting it.
		s.transformer.Invalidate(path)
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("write failed: %v", err)), nil
		}
	}
	return mcp.NewToolResultText(out), nil
}

type dependencyInfo struct {
	Element string `json:"element"`
	Param   string `json:"param,omitempty"`
	Name    string `json:"name,omitempty"`
}

func (s *Server) handleListDependencies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := req.GetString("source", "")
	path := req.GetString("path", "")

	var (
		data []byte
		lang parser.Language
		tsx  bool
	)
	switch {
	case path != "":
		lang = parser.DetectLanguage(path)
		if lang == parser.LanguageUnknown {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported file extension: %s", path)), nil
		}
		tsx = parser.IsTSX(path)
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	case source != "":
		var err error
		lang, tsx, err = requestLanguage(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data = []byte(source)
	default:
		return mcp.NewToolResultError("either source or path is required"), nil
	}

	deps, err := s.transformer.Dependencies(data, lang, tsx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
	}

	infos := make([]dependencyInfo, 0, len(deps))
	for _, d := range deps {
		infos = append(infos, dependencyInfo{Element: d.Element, Param: d.Param, Name: d.Name})
	}
	b, err := json.Marshal(infos)
	if err != nil {
		return nil, fmt.Errorf("marshal dependencies: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func requestLanguage(req mcp.CallToolRequest) (parser.Language, bool, error) {
	raw := req.GetString("language", "javascript")
	lang := parser.ParseLanguage(raw)
	if lang == parser.LanguageUnknown {
		return lang, false, fmt.Errorf("unknown language %q", raw)
	}
	return lang, req.GetBool("tsx", false), nil
}
