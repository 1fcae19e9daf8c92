package tools

import (
	"context"
	"fmt"
	"strings"

	domainllm "uigen/internal/llm"
	"uigen/internal/vfs"
)

// StrReplaceEditor is the file creation/editing tool the model drives. It
// mirrors the classic str_replace_editor command set: view, create,
// str_replace and insert, all against the request's virtual file system.
type StrReplaceEditor struct {
	fs *vfs.FileSystem
}

// NewStrReplaceEditor creates the editor tool over the given file system.
func NewStrReplaceEditor(fs *vfs.FileSystem) *StrReplaceEditor {
	return &StrReplaceEditor{fs: fs}
}

func (t *StrReplaceEditor) Definition() domainllm.ToolDefinition {
	return domainllm.ToolDefinition{
		Name:        "str_replace_editor",
		Description: "Create and edit files in the project. Commands: create (write a new file), str_replace (replace a unique string in a file), insert (insert text after a line), view (show a file or directory).",
		InputSchema: map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"view", "create", "str_replace", "insert"},
				"description": "The edit command to run.",
			},
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path of the file or directory, e.g. /App.jsx.",
			},
			"file_text": map[string]interface{}{
				"type":        "string",
				"description": "Full file contents, for the create command.",
			},
			"old_str": map[string]interface{}{
				"type":        "string",
				"description": "Exact string to replace, for str_replace. Must occur exactly once.",
			},
			"new_str": map[string]interface{}{
				"type":        "string",
				"description": "Replacement string for str_replace, or the text to insert.",
			},
			"insert_line": map[string]interface{}{
				"type":        "integer",
				"description": "1-based line number to insert after, for insert. 0 inserts at the top.",
			},
		},
		Required: []string{"command", "path"},
	}
}

func (t *StrReplaceEditor) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	command, _ := input["command"].(string)
	path, _ := input["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	switch command {
	case "create":
		fileText, _ := input["file_text"].(string)
		if _, err := t.fs.CreateFile(path, fileText); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Created %s", path), nil

	case "str_replace":
		oldStr, _ := input["old_str"].(string)
		newStr, _ := input["new_str"].(string)
		return t.strReplace(path, oldStr, newStr)

	case "insert":
		newStr, _ := input["new_str"].(string)
		line := intArg(input, "insert_line")
		return t.insert(path, line, newStr)

	case "view":
		return t.view(path)

	default:
		return nil, fmt.Errorf("unknown command: %q", command)
	}
}

func (t *StrReplaceEditor) strReplace(path, oldStr, newStr string) (interface{}, error) {
	if oldStr == "" {
		return nil, fmt.Errorf("old_str is required")
	}

	content, err := t.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.Count(content, oldStr) {
	case 0:
		return nil, fmt.Errorf("old_str not found in %s", path)
	case 1:
		// unique, proceed
	default:
		return nil, fmt.Errorf("old_str occurs more than once in %s; provide a longer unique string", path)
	}

	if err := t.fs.UpdateFile(path, strings.Replace(content, oldStr, newStr, 1)); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Replaced text in %s", path), nil
}

func (t *StrReplaceEditor) insert(path string, line int, text string) (interface{}, error) {
	content, err := t.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(content, "\n")
	if line < 0 || line > len(lines) {
		return nil, fmt.Errorf("insert_line %d is out of range (file has %d lines)", line, len(lines))
	}

	updated := make([]string, 0, len(lines)+1)
	updated = append(updated, lines[:line]...)
	updated = append(updated, text)
	updated = append(updated, lines[line:]...)

	if err := t.fs.UpdateFile(path, strings.Join(updated, "\n")); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Inserted text at line %d in %s", line, path), nil
}

func (t *StrReplaceEditor) view(path string) (interface{}, error) {
	if content, err := t.fs.ReadFile(path); err == nil {
		var b strings.Builder
		for i, line := range strings.Split(content, "\n") {
			fmt.Fprintf(&b, "%d\t%s\n", i+1, line)
		}
		return b.String(), nil
	}

	children, err := t.fs.ListDirectory(path)
	if err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(children))
	for _, child := range children {
		name := child.Name
		if child.Type == vfs.TypeDirectory {
			name += "/"
		}
		entries = append(entries, name)
	}
	return strings.Join(entries, "\n"), nil
}

func intArg(input map[string]interface{}, key string) int {
	switch v := input[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
