package file

import "strings"

// languageByExtension maps file-name extensions to editor language IDs.
var languageByExtension = map[string]string{
	"js":   "javascript",
	"jsx":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"html": "html",
	"css":  "css",
	"json": "json",
	"md":   "markdown",
	"py":   "python",
	"rb":   "ruby",
	"php":  "php",
	"java": "java",
	"go":   "go",
	"rs":   "rust",
	"sql":  "sql",
}

// InferLanguage derives an editor language from a file name's extension.
// Unknown or missing extensions map to "plaintext".
func InferLanguage(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return "plaintext"
	}
	if lang, ok := languageByExtension[strings.ToLower(name[idx+1:])]; ok {
		return lang
	}
	return "plaintext"
}
