package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFileSystem(t *testing.T) {
	tempDir := t.TempDir()
	fs := NewLocalFileSystem(tempDir)

	if err := os.MkdirAll(filepath.Join(tempDir, "testdir"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "testdir", "test.txt"), []byte("Hello, World!"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Test FileExists
	exists, err := fs.FileExists("testdir/test.txt")
	if err != nil {
		t.Errorf("FileExists failed: %v", err)
	}
	if !exists {
		t.Error("File should exist")
	}

	exists, err = fs.FileExists("missing.txt")
	if err != nil {
		t.Errorf("FileExists failed: %v", err)
	}
	if exists {
		t.Error("File should not exist")
	}

	// Test IsFile
	isFile, err := fs.IsFile("testdir/test.txt")
	if err != nil {
		t.Errorf("IsFile failed: %v", err)
	}
	if !isFile {
		t.Error("Should be a file")
	}

	isFile, err = fs.IsFile("testdir")
	if err != nil {
		t.Errorf("IsFile failed: %v", err)
	}
	if isFile {
		t.Error("Directory should not be a file")
	}

	// Test IsDirectory
	isDir, err := fs.IsDirectory("testdir")
	if err != nil {
		t.Errorf("IsDirectory failed: %v", err)
	}
	if !isDir {
		t.Error("Should be a directory")
	}

	isDir, err = fs.IsDirectory("")
	if err != nil {
		t.Errorf("IsDirectory failed: %v", err)
	}
	if !isDir {
		t.Error("Root should be a directory")
	}

	if fs.Root() != tempDir {
		t.Errorf("Expected root %s, got %s", tempDir, fs.Root())
	}
}

func TestLocalFileSystemRejectsEscapes(t *testing.T) {
	fs := NewLocalFileSystem(t.TempDir())

	for _, path := range []string{"../secret", "a/../../secret", "/etc/passwd"} {
		_, err := fs.FileExists(path)
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("%s: expected ErrInvalidPath, got %v", path, err)
		}
	}
}

func TestOpenDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "file"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, err := OpenDir(tempDir)
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	if fs.Root() != tempDir {
		t.Errorf("expected root %s, got %s", tempDir, fs.Root())
	}

	for _, root := range []string{filepath.Join(tempDir, "file"), filepath.Join(tempDir, "missing")} {
		if _, err := OpenDir(root); !errors.Is(err, ErrNotDirectory) {
			t.Errorf("%s: expected ErrNotDirectory, got %v", root, err)
		}
	}
}

func TestTargetExists(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "foo"), []byte("bar"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(tempDir, "dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	fs := NewLocalFileSystem(tempDir)

	testCases := []struct {
		target string
		want   bool
	}{
		{"/", true},
		{"/foo", true},
		{"/missing", false},
		{"/dir", false},
		{"", false},
	}

	for _, tc := range testCases {
		got, err := TargetExists(fs, tc.target)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.target, err)
		}
		if got != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.target, tc.want, got)
		}
	}

	// The root target needs no directory at all.
	ok, err := TargetExists(NewLocalFileSystem(filepath.Join(tempDir, "nowhere")), "/")
	if err != nil || !ok {
		t.Errorf("root target should always exist, got %v, %v", ok, err)
	}

	if _, err := TargetExists(fs, "/../escape"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
}
