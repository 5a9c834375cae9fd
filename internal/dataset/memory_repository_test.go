package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.LatestBundle(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot for empty repository, got %v", err)
	}

	b, err := DecodeBundle(strings.NewReader(validBundleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.SaveBundle(ctx, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.LatestBundle(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != b.Version {
		t.Errorf("unexpected version %q", got.Version)
	}

	// A later save replaces the previous bundle.
	newer := *b
	newer.Version = "2025-07-01"
	if err := repo.SaveBundle(ctx, &newer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = repo.LatestBundle(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != "2025-07-01" {
		t.Errorf("expected latest version, got %q", got.Version)
	}
}
