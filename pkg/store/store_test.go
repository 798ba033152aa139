package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/pathquery/pkg/cache"
	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	"github.com/matzehuels/pathquery/pkg/network"
)

func sample(t *testing.T, name string) *network.Network {
	t.Helper()
	n := network.New(name)
	n.Description = "toy network"
	for _, id := range []string{"TP53", "MDM2"} {
		if _, err := n.AddEntity(network.Entity{ID: id, Type: network.TypeProtein}); err != nil {
			t.Fatal(err)
		}
	}
	if err := n.Link("MDM2", network.Inhibition, "TP53"); err != nil {
		t.Fatal(err)
	}
	return n
}

// testStore runs the behavior every Store must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "p53"); !pqerrors.Is(err, pqerrors.ErrCodeNotFound) {
		t.Fatalf("Load(missing) error = %v, want NOT_FOUND", err)
	}
	if err := s.Save(ctx, sample(t, "p53")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, sample(t, "egfr")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	n, err := s.Load(ctx, "p53")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n.Name != "p53" || n.Len() != 2 || len(n.Interactions()) != 1 {
		t.Errorf("Load = %q with %d entities", n.Name, n.Len())
	}
	if !n.Interactions()[0].Inhibitory {
		t.Error("polarity lost in storage")
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "egfr" || infos[1].Name != "p53" {
		t.Fatalf("List = %+v", infos)
	}
	if infos[1].Entities != 2 || infos[1].Interactions != 1 || infos[1].Description != "toy network" {
		t.Errorf("Info = %+v", infos[1])
	}

	if err := s.Save(ctx, sample(t, "../etc")); !pqerrors.Is(err, pqerrors.ErrCodeInvalidName) {
		t.Errorf("Save(../etc) error = %v", err)
	}

	if err := s.Delete(ctx, "p53"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "p53"); !pqerrors.Is(err, pqerrors.ErrCodeNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
	if _, err := s.Load(ctx, "p53"); !pqerrors.Is(err, pqerrors.ErrCodeNotFound) {
		t.Errorf("Load after Delete error = %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestFileStoreHandWritten(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "toy.sif"), []byte("A activation B\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	infos, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Name != "toy" || infos[0].Entities != 2 {
		t.Errorf("List = %+v", infos)
	}
}

// countingStore counts Load calls reaching the backend.
type countingStore struct {
	Store
	loads int
}

func (c *countingStore) Load(ctx context.Context, name string) (*network.Network, error) {
	c.loads++
	return c.Store.Load(ctx, name)
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	backend := &countingStore{Store: fs}
	s := Cached(backend, fc, nil, "file")

	if err := s.Save(ctx, sample(t, "p53")); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		n, err := s.Load(ctx, "p53")
		if err != nil {
			t.Fatal(err)
		}
		if n.Len() != 2 {
			t.Fatalf("cached network has %d entities", n.Len())
		}
	}
	if backend.loads != 1 {
		t.Errorf("backend loads = %d, want 1", backend.loads)
	}

	// Saving invalidates the cached copy
	updated := sample(t, "p53")
	if _, err := updated.AddEntity(network.Entity{ID: "CDKN1A"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, updated); err != nil {
		t.Fatal(err)
	}
	n, err := s.Load(ctx, "p53")
	if err != nil {
		t.Fatal(err)
	}
	if n.Len() != 3 || backend.loads != 2 {
		t.Errorf("after Save: %d entities, %d backend loads", n.Len(), backend.loads)
	}

	if err := s.Delete(ctx, "p53"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "p53"); !pqerrors.Is(err, pqerrors.ErrCodeNotFound) {
		t.Errorf("Load after Delete error = %v", err)
	}
}

func TestFileStoreNamesFollowFiles(t *testing.T) {
	dir := t.TempDir()
	src := "name = \"tp53-signalling\"\n\n[[entity]]\nid = \"TP53\"\ntype = \"Protein\"\n"
	if err := os.WriteFile(filepath.Join(dir, "p53.toml"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Name != "p53" {
		t.Fatalf("List = %+v, want the file name p53", infos)
	}
	for _, info := range infos {
		n, err := s.Load(ctx, info.Name)
		if err != nil {
			t.Fatalf("Load(%q) of a listed name: %v", info.Name, err)
		}
		if n.Name != info.Name {
			t.Errorf("Load(%q).Name = %q", info.Name, n.Name)
		}
	}
	if _, err := s.Load(ctx, "tp53-signalling"); !pqerrors.Is(err, pqerrors.ErrCodeNotFound) {
		t.Errorf("Load(embedded name) error = %v, want NOT_FOUND", err)
	}
}
