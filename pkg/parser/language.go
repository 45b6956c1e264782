package parser

import (
	"path/filepath"
	"strings"
)

// Language selects the grammar used to parse a source file.
type Language int

const (
	LanguageJavaScript Language = iota
	LanguageTypeScript
	LanguageUnknown
)

func (l Language) String() string {
	switch l {
	case LanguageJavaScript:
		return "javascript"
	case LanguageTypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// DetectLanguage maps a file extension to the grammar that parses it.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}

// IsTSX reports whether the file needs the TSX variant of the TypeScript
// grammar.
func IsTSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tsx")
}

// ParseLanguage converts a language flag value ("js", "javascript", "ts",
// "typescript") to a Language.
func ParseLanguage(s string) Language {
	switch strings.ToLower(s) {
	case "js", "javascript":
		return LanguageJavaScript
	case "ts", "typescript":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}
