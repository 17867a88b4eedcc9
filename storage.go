package treasure

import (
	"os"
)

// FileSystem abstracts where documents are read from and saved to.
// The library provides a default implementation for local files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

// localFileSystem implements FileSystem for local files.
type localFileSystem struct{}

func (fs *localFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fs *localFileSystem) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0644)
}

// memFileSystem keeps files in a map. Used by tests and the bench tool
// through NewMemFileSystem.
type memFileSystem struct {
	files map[string][]byte
}

// NewMemFileSystem returns an in-memory FileSystem seeded with files.
func NewMemFileSystem(files map[string]string) FileSystem {
	fs := &memFileSystem{files: make(map[string][]byte)}
	for name, content := range files {
		fs.files[name] = []byte(content)
	}
	return fs
}

func (fs *memFileSystem) ReadFile(name string) ([]byte, error) {
	data, ok := fs.files[name]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (fs *memFileSystem) WriteFile(name string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	fs.files[name] = buf
	return nil
}
