package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neutron-labs/inventory-service/pkg/db"
	"github.com/neutron-labs/inventory-service/pkg/db/models"
	pkgerrors "github.com/neutron-labs/inventory-service/pkg/errors"
)

// Resolver maps free-text names onto canonical category/tag rows. Lookups are
// case-insensitive; inserts preserve the casing the caller supplied. Blank
// names are dropped silently and results are deduplicated by identity.
type Resolver struct {
	repo *Repository
}

// NewResolver wires a resolver with the provided repository.
func NewResolver(repo *Repository) (*Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Resolver{repo: repo}, nil
}

// WithTx returns a resolver whose lookups and inserts run inside tx.
func (r *Resolver) WithTx(tx *gorm.DB) *Resolver {
	return &Resolver{repo: r.repo.WithTx(tx)}
}

// ResolveCategories resolves each name to an existing category or creates one.
func (r *Resolver) ResolveCategories(ctx context.Context, names []string) ([]models.Category, error) {
	return resolveOrCreate(ctx, names,
		r.repo.FindCategoryByName,
		r.repo.CreateCategory,
		func(c *models.Category) uuid.UUID { return c.ID },
	)
}

// ResolveTags resolves each name to an existing tag or creates one.
func (r *Resolver) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	return resolveOrCreate(ctx, names,
		r.repo.FindTagByName,
		r.repo.CreateTag,
		func(t *models.Tag) uuid.UUID { return t.ID },
	)
}

// resolveOrCreate runs the shared find-or-create loop. A unique violation on
// insert means another request won the race for the same name; the loser
// re-fetches and uses the existing row.
func resolveOrCreate[T any](
	ctx context.Context,
	names []string,
	find func(context.Context, string) (*T, error),
	create func(context.Context, string) (*T, error),
	identity func(*T) uuid.UUID,
) ([]T, error) {
	resolved := make([]T, 0, len(names))
	seen := make(map[uuid.UUID]struct{}, len(names))

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		entity, err := find(ctx, name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup by name")
		}
		if entity == nil {
			entity, err = create(ctx, name)
			if db.IsUniqueViolation(err, "") {
				entity, err = find(ctx, name)
				if err == nil && entity == nil {
					err = fmt.Errorf("entity %q vanished after unique violation", name)
				}
			}
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create by name")
			}
		}

		id := identity(entity)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		resolved = append(resolved, *entity)
	}

	return resolved, nil
}
