package images

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/neutron-labs/inventory-service/pkg/config"
	pkgerrors "github.com/neutron-labs/inventory-service/pkg/errors"
)

// Store persists uploaded product images on local disk and hands back the
// public path recorded on the product row.
type Store struct {
	dir        string
	publicPath string
}

// NewStore creates the upload directory if needed.
func NewStore(cfg config.ImagesConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("images dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating images dir %q: %w", cfg.Dir, err)
	}
	publicPath := cfg.PublicPath
	if publicPath == "" {
		publicPath = "/images"
	}
	return &Store{dir: cfg.Dir, publicPath: publicPath}, nil
}

// Dir returns the on-disk directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the upload under a uuid-prefixed name and returns the public
// access path for the stored file.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	base := sanitizeFilename(filename)
	stored := fmt.Sprintf("%s_%s", uuid.NewString(), base)

	f, err := os.Create(filepath.Join(s.dir, stored))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating image file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing image file")
	}

	return path.Join(s.publicPath, stored), nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "upload"
	}
	return strings.ReplaceAll(base, " ", "_")
}
