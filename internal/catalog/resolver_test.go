package catalog

import (
	"context"
	"testing"
)

func newTestResolver(t *testing.T) (*Resolver, *Repository) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	resolver, err := NewResolver(repo)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver, repo
}

func TestResolveCreatesMissingCategory(t *testing.T) {
	resolver, _ := newTestResolver(t)

	resolved, err := resolver.ResolveCategories(context.Background(), []string{"Shoes"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected 1 category, got %d", len(resolved))
	}
	if resolved[0].Name != "Shoes" {
		t.Fatalf("expected supplied casing preserved, got %q", resolved[0].Name)
	}
}

func TestResolveIsCaseInsensitivelyIdempotent(t *testing.T) {
	resolver, repo := newTestResolver(t)
	ctx := context.Background()

	first, err := resolver.ResolveCategories(ctx, []string{"Shoes"})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := resolver.ResolveCategories(ctx, []string{"shoes"})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if first[0].ID != second[0].ID {
		t.Fatalf("expected same entity, got %s and %s", first[0].ID, second[0].ID)
	}
	if second[0].Name != "Shoes" {
		t.Fatalf("expected the originally stored name, got %q", second[0].Name)
	}

	count, err := repo.CountCategories(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one stored category, got %d", count)
	}
}

func TestResolveDropsBlankNames(t *testing.T) {
	resolver, repo := newTestResolver(t)

	resolved, err := resolver.ResolveTags(context.Background(), []string{"", "  ", "red"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected exactly one tag, got %d", len(resolved))
	}
	if resolved[0].Name != "red" {
		t.Fatalf("expected tag %q, got %q", "red", resolved[0].Name)
	}

	count, err := repo.CountTags(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored tag, got %d", count)
	}
}

func TestResolveTrimsWhitespace(t *testing.T) {
	resolver, _ := newTestResolver(t)

	resolved, err := resolver.ResolveTags(context.Background(), []string{"  summer  "})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 1 || resolved[0].Name != "summer" {
		t.Fatalf("expected trimmed tag, got %+v", resolved)
	}
}

func TestResolveDeduplicatesWithinOneCall(t *testing.T) {
	resolver, repo := newTestResolver(t)

	resolved, err := resolver.ResolveCategories(context.Background(), []string{"Boots", "boots", "BOOTS"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected identity-deduplicated result, got %d entries", len(resolved))
	}

	count, err := repo.CountCategories(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored category, got %d", count)
	}
}

func TestResolveMixesExistingAndNew(t *testing.T) {
	resolver, repo := newTestResolver(t)
	ctx := context.Background()

	if _, err := resolver.ResolveCategories(ctx, []string{"Electronics"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resolved, err := resolver.ResolveCategories(ctx, []string{"electronics", "Audio"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(resolved))
	}

	count, err := repo.CountCategories(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 stored categories, got %d", count)
	}
}
