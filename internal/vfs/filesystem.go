// Package vfs implements the in-memory virtual file system that generated
// component source lives in. It is a JSON-serializable path->node tree, not
// a real filesystem: no permissions, no journaling, no cross-request state.
package vfs

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// Node types.
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// Node is one entry in the tree.
type Node struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
}

// FileSystem is a path-keyed node tree rooted at "/". The mutex exists
// because tool executions within a single request may run concurrently.
type FileSystem struct {
	mu    sync.RWMutex
	nodes map[string]*Node
}

// New creates a file system containing only the root directory.
func New() *FileSystem {
	fs := &FileSystem{nodes: make(map[string]*Node)}
	fs.nodes["/"] = &Node{Type: TypeDirectory, Name: "/", Path: "/"}
	return fs
}

// NewFromSnapshot creates a file system and loads the given snapshot into it.
func NewFromSnapshot(snapshot map[string]interface{}) *FileSystem {
	fs := New()
	fs.DeserializeFromNodes(snapshot)
	return fs
}

// normalizePath cleans a path and forces a leading slash.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// ensureParents creates any missing directories above p.
func (fs *FileSystem) ensureParents(p string) {
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		if _, ok := fs.nodes[dir]; !ok {
			fs.nodes[dir] = &Node{Type: TypeDirectory, Name: path.Base(dir), Path: dir}
		}
		if dir == "/" {
			return
		}
	}
}

// CreateFile creates a file (and any missing parent directories) with the
// given content. Overwrites an existing file at the same path.
func (fs *FileSystem) CreateFile(p, content string) (*Node, error) {
	p = normalizePath(p)
	if p == "/" {
		return nil, fmt.Errorf("cannot create a file at the root path")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if existing, ok := fs.nodes[p]; ok && existing.Type == TypeDirectory {
		return nil, fmt.Errorf("%s is a directory", p)
	}

	fs.ensureParents(p)
	node := &Node{Type: TypeFile, Name: path.Base(p), Path: p, Content: content}
	fs.nodes[p] = node
	return node, nil
}

// CreateDirectory creates a directory and any missing parents.
func (fs *FileSystem) CreateDirectory(p string) (*Node, error) {
	p = normalizePath(p)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if existing, ok := fs.nodes[p]; ok {
		if existing.Type == TypeFile {
			return nil, fmt.Errorf("%s is a file", p)
		}
		return existing, nil
	}

	fs.ensureParents(p)
	node := &Node{Type: TypeDirectory, Name: path.Base(p), Path: p}
	fs.nodes[p] = node
	return node, nil
}

// ReadFile returns the content of the file at p.
func (fs *FileSystem) ReadFile(p string) (string, error) {
	p = normalizePath(p)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	node, ok := fs.nodes[p]
	if !ok {
		return "", fmt.Errorf("file not found: %s", p)
	}
	if node.Type != TypeFile {
		return "", fmt.Errorf("%s is a directory", p)
	}
	return node.Content, nil
}

// UpdateFile replaces the content of an existing file.
func (fs *FileSystem) UpdateFile(p, content string) error {
	p = normalizePath(p)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	node, ok := fs.nodes[p]
	if !ok {
		return fmt.Errorf("file not found: %s", p)
	}
	if node.Type != TypeFile {
		return fmt.Errorf("%s is a directory", p)
	}
	node.Content = content
	return nil
}

// Exists reports whether a node is present at p.
func (fs *FileSystem) Exists(p string) bool {
	p = normalizePath(p)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, ok := fs.nodes[p]
	return ok
}

// Rename moves a node (and, for directories, everything beneath it).
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	oldPath = normalizePath(oldPath)
	newPath = normalizePath(newPath)
	if oldPath == "/" || newPath == "/" {
		return fmt.Errorf("cannot rename the root directory")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	node, ok := fs.nodes[oldPath]
	if !ok {
		return fmt.Errorf("path not found: %s", oldPath)
	}
	if _, taken := fs.nodes[newPath]; taken {
		return fmt.Errorf("destination already exists: %s", newPath)
	}

	fs.ensureParents(newPath)

	delete(fs.nodes, oldPath)
	node.Path = newPath
	node.Name = path.Base(newPath)
	fs.nodes[newPath] = node

	if node.Type == TypeDirectory {
		prefix := oldPath + "/"
		for p, child := range fs.nodes {
			if strings.HasPrefix(p, prefix) {
				delete(fs.nodes, p)
				child.Path = newPath + "/" + strings.TrimPrefix(p, prefix)
				fs.nodes[child.Path] = child
			}
		}
	}

	return nil
}

// Delete removes a node; directories are removed recursively. The root
// directory cannot be deleted.
func (fs *FileSystem) Delete(p string) error {
	p = normalizePath(p)
	if p == "/" {
		return fmt.Errorf("cannot delete the root directory")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	node, ok := fs.nodes[p]
	if !ok {
		return fmt.Errorf("path not found: %s", p)
	}

	delete(fs.nodes, p)
	if node.Type == TypeDirectory {
		prefix := p + "/"
		for childPath := range fs.nodes {
			if strings.HasPrefix(childPath, prefix) {
				delete(fs.nodes, childPath)
			}
		}
	}

	return nil
}

// ListDirectory returns the immediate children of a directory, sorted by
// path, directories first.
func (fs *FileSystem) ListDirectory(p string) ([]*Node, error) {
	p = normalizePath(p)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, ok := fs.nodes[p]
	if !ok {
		return nil, fmt.Errorf("path not found: %s", p)
	}
	if dir.Type != TypeDirectory {
		return nil, fmt.Errorf("%s is a file", p)
	}

	var children []*Node
	for childPath, node := range fs.nodes {
		if childPath != "/" && path.Dir(childPath) == p {
			children = append(children, node)
		}
	}

	sort.Slice(children, func(i, j int) bool {
		if children[i].Type != children[j].Type {
			return children[i].Type == TypeDirectory
		}
		return children[i].Path < children[j].Path
	})

	return children, nil
}

// SerializeToNodes produces the JSON-shaped snapshot: a mapping from path to
// node. The result always contains at least the root entry.
func (fs *FileSystem) SerializeToNodes() map[string]interface{} {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	out := make(map[string]interface{}, len(fs.nodes))
	for p, node := range fs.nodes {
		entry := map[string]interface{}{
			"type": node.Type,
			"name": node.Name,
			"path": node.Path,
		}
		if node.Type == TypeFile {
			entry["content"] = node.Content
		}
		out[p] = entry
	}
	return out
}

// DeserializeFromNodes loads a snapshot produced by SerializeToNodes.
// Unrecognized or malformed entries are skipped rather than failing the
// whole load; the snapshot came over the wire and is best-effort.
func (fs *FileSystem) DeserializeFromNodes(snapshot map[string]interface{}) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for p, raw := range snapshot {
		p = normalizePath(p)
		if p == "/" {
			continue
		}

		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		nodeType, _ := entry["type"].(string)
		switch nodeType {
		case TypeFile:
			content, _ := entry["content"].(string)
			fs.ensureParents(p)
			fs.nodes[p] = &Node{Type: TypeFile, Name: path.Base(p), Path: p, Content: content}
		case TypeDirectory:
			fs.ensureParents(p)
			fs.nodes[p] = &Node{Type: TypeDirectory, Name: path.Base(p), Path: p}
		}
	}
}
