package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/bip39crack/internal/fs"
)

// LocalStore implements BlobStore using the local file system.
// Blob names are slash-separated paths relative to the root.
type LocalStore struct {
	root string
	fs   fs.FileSystem
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return NewLocalStoreFS(root, fs.Default)
}

// NewLocalStoreFS creates a LocalStore on top of a custom file system.
func NewLocalStoreFS(root string, fsys fs.FileSystem) *LocalStore {
	return &LocalStore{root: root, fs: fsys}
}

// Root returns the directory the store is rooted at.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open opens a blob for reading.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	f, err := s.fs.OpenFile(s.path(name), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: is a directory", name)
	}

	return &localBlob{File: f, size: info.Size()}, nil
}

// Create creates or truncates a blob.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	return s.openWrite(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
}

// Append opens a blob for appending, creating it if needed.
func (s *LocalStore) Append(_ context.Context, name string) (WritableBlob, error) {
	return s.openWrite(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY)
}

func (s *LocalStore) openWrite(name string, flag int) (WritableBlob, error) {
	p := s.path(name)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	return s.fs.OpenFile(p, flag, 0o644)
}

// Put writes a blob atomically by renaming a synced temporary file into place.
func (s *LocalStore) Put(_ context.Context, name string, data []byte) (err error) {
	p := s.path(name)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	tmp := p + ".tmp"
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return s.fs.Rename(tmp, p)
}

// Delete removes a blob.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := s.fs.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// List returns all blobs below the root whose name starts with prefix.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	if err := s.walk("", func(name string) {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *LocalStore) walk(dir string, fn func(name string)) error {
	entries, err := s.fs.ReadDir(s.path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && dir == "" {
			return nil
		}
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if dir != "" {
			name = dir + "/" + name
		}
		if e.IsDir() {
			if err := s.walk(name, fn); err != nil {
				return err
			}
			continue
		}
		fn(name)
	}
	return nil
}

type localBlob struct {
	fs.File
	size int64
}

func (b *localBlob) Size() int64 {
	return b.size
}
