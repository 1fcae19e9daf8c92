package tools

import "uigen/internal/vfs"

// BuildForFileSystem constructs the registry every chat request uses: the
// editor and file manager bound to that request's virtual file system.
func BuildForFileSystem(fs *vfs.FileSystem) *Registry {
	registry := NewRegistry()
	registry.Register(NewStrReplaceEditor(fs))
	registry.Register(NewFileManager(fs))
	return registry
}
