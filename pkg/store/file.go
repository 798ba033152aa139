package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	pqio "github.com/matzehuels/pathquery/pkg/io"
	"github.com/matzehuels/pathquery/pkg/network"
)

// extensions are tried in order when loading. Save always writes JSON,
// so a saved network shadows hand-written TOML or SIF files of that name.
var extensions = []string{".json", ".toml", ".sif"}

// FileStore keeps one network file per name in a directory.
// Files written by hand in any supported format are picked up as well.
type FileStore struct {
	dir string
}

// NewFileStore opens a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "create store directory")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "read store directory")
	}
	seen := make(map[string]bool)
	var infos []Info
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ext := filepath.Ext(e.Name())
		name := strings.TrimSuffix(e.Name(), ext)
		if e.IsDir() || !slices.Contains(extensions, ext) || seen[name] {
			continue
		}
		if pqerrors.ValidateName(name) != nil {
			continue
		}
		seen[name] = true
		n, err := s.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		fi, err := e.Info()
		if err != nil {
			return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "stat %s", e.Name())
		}
		infos = append(infos, infoOf(n, fi.ModTime()))
	}
	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.Name, b.Name) })
	return infos, nil
}

// Load implements Store. The network is always named after its file, so
// the names List reports are the names Load accepts.
func (s *FileStore) Load(ctx context.Context, name string) (*network.Network, error) {
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}
	n, err := pqio.ImportNetwork(path)
	if err != nil {
		return nil, err
	}
	n.Name = name
	return n, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, n *network.Network) error {
	if err := pqerrors.ValidateName(n.Name); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "write network %s", n.Name)
	}
	defer os.Remove(f.Name())
	if err := pqio.WriteNetwork(n, f, pqio.FormatJSON); err != nil {
		f.Close()
		return pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "write network %s", n.Name)
	}
	if err := f.Close(); err != nil {
		return pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "write network %s", n.Name)
	}
	if err := os.Rename(f.Name(), filepath.Join(s.dir, n.Name+".json")); err != nil {
		return pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "write network %s", n.Name)
	}
	return nil
}

// Delete implements Store. Every file variant of name is removed.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := pqerrors.ValidateName(name); err != nil {
		return err
	}
	removed := false
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.dir, name+ext))
		switch {
		case err == nil:
			removed = true
		case !os.IsNotExist(err):
			return pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "delete network %s", name)
		}
	}
	if !removed {
		return notFound(name)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) find(name string) (string, error) {
	if err := pqerrors.ValidateName(name); err != nil {
		return "", err
	}
	for _, ext := range extensions {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "stat %s", path)
		}
	}
	return "", notFound(name)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
