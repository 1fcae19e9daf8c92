package tools

import (
	"context"
	"fmt"

	domainllm "uigen/internal/llm"
	"uigen/internal/vfs"
)

// FileManager lets the model rename and delete files or directories in the
// request's virtual file system.
type FileManager struct {
	fs *vfs.FileSystem
}

// NewFileManager creates the file manager tool over the given file system.
func NewFileManager(fs *vfs.FileSystem) *FileManager {
	return &FileManager{fs: fs}
}

func (t *FileManager) Definition() domainllm.ToolDefinition {
	return domainllm.ToolDefinition{
		Name:        "file_manager",
		Description: "Rename or delete files and directories in the project.",
		InputSchema: map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"rename", "delete"},
				"description": "The operation to run.",
			},
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path of the file or directory to operate on.",
			},
			"new_path": map[string]interface{}{
				"type":        "string",
				"description": "Destination path, for the rename command.",
			},
		},
		Required: []string{"command", "path"},
	}
}

func (t *FileManager) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	command, _ := input["command"].(string)
	path, _ := input["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	switch command {
	case "rename":
		newPath, _ := input["new_path"].(string)
		if newPath == "" {
			return nil, fmt.Errorf("new_path is required for rename")
		}
		if err := t.fs.Rename(path, newPath); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Renamed %s to %s", path, newPath), nil

	case "delete":
		if err := t.fs.Delete(path); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Deleted %s", path), nil

	default:
		return nil, fmt.Errorf("unknown command: %q", command)
	}
}
