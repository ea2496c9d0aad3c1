package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath  = fmt.Errorf("filesystem: invalid path")
	ErrNotDirectory = fmt.Errorf("filesystem: not a directory")
)

// Filesystem answers existence questions for paths relative to its root.
type Filesystem interface {
	FileExists(path string) (bool, error)
	IsFile(path string) (bool, error)
	IsDirectory(path string) (bool, error)
	Root() string
}

type localFileSystem struct {
	root string
}

func NewLocalFileSystem(root string) Filesystem {
	return &localFileSystem{root: root}
}

// OpenDir returns a local filesystem rooted at root, which must be an
// existing directory.
func OpenDir(root string) (Filesystem, error) {
	fs := NewLocalFileSystem(root)

	ok, err := fs.IsDirectory("")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	return fs, nil
}

func (filesystem *localFileSystem) Root() string {
	return filesystem.root
}

// resolve joins path onto the root, refusing anything that would escape it.
func (filesystem *localFileSystem) resolve(path string) (string, error) {
	if path == "" {
		return filesystem.root, nil
	}
	if !filepath.IsLocal(filepath.FromSlash(path)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return filepath.Join(filesystem.root, filepath.FromSlash(path)), nil
}

func (filesystem *localFileSystem) stat(path string) (os.FileInfo, error) {
	resolved, err := filesystem.resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return info, nil
}

func (filesystem *localFileSystem) FileExists(path string) (bool, error) {
	info, err := filesystem.stat(path)
	return info != nil, err
}

// IsFile implements Filesystem.
func (filesystem *localFileSystem) IsFile(path string) (bool, error) {
	info, err := filesystem.stat(path)
	if info == nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// IsDirectory implements Filesystem.
func (filesystem *localFileSystem) IsDirectory(path string) (bool, error) {
	info, err := filesystem.stat(path)
	if info == nil {
		return false, err
	}
	return info.IsDir(), nil
}

// TargetExists reports whether a request target names something servable:
// "/" always does, anything else must be a regular file under the root.
func TargetExists(filesystem Filesystem, target string) (bool, error) {
	if target == "/" {
		return true, nil
	}

	name := strings.TrimPrefix(target, "/")
	if name == "" {
		return false, nil
	}

	return filesystem.IsFile(name)
}
