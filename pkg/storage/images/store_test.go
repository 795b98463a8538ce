package images

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neutron-labs/inventory-service/pkg/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(config.ImagesConfig{
		Dir:        t.TempDir(),
		PublicPath: "/images",
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveWritesFileAndReturnsPublicPath(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Save("front view.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(got, "/images/") {
		t.Fatalf("expected public path prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "_front_view.png") {
		t.Fatalf("expected sanitized original name suffix, got %q", got)
	}

	onDisk := filepath.Join(store.Dir(), filepath.Base(got))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save("box.jpg", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.Save("box.jpg", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first == second {
		t.Fatalf("expected unique stored names, both were %q", first)
	}
}

func TestSaveRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Save("../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.Contains(got, "..") {
		t.Fatalf("expected traversal to be stripped, got %q", got)
	}
}
