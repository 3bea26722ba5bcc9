package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campusreg/registration-system/internal/core/domain"
)

type stubCache struct {
	entries map[string]*domain.Class
	getErr  error
	setErr  error
	sets    int
}

func (c *stubCache) Get(_ context.Context, classID string) (*domain.Class, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[classID], nil
}

func (c *stubCache) Set(_ context.Context, class *domain.Class) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	if c.entries == nil {
		c.entries = make(map[string]*domain.Class)
	}
	c.entries[class.ID] = class
	return nil
}

func TestStaticCatalog_Resolve(t *testing.T) {
	cat := testCatalog()

	class, err := cat.Resolve(context.Background(), "1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if class.Name != "Web Development 101" {
		t.Fatalf("unexpected class: %+v", class)
	}

	if _, err := cat.Resolve(context.Background(), "nope"); !errors.Is(err, domain.ErrClassNotFound) {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestCachedCatalog_PopulatesAndServesCache(t *testing.T) {
	cache := &stubCache{}
	cat := NewCachedCatalog(testCatalog(), cache, zerolog.Nop())

	if _, err := cat.Resolve(context.Background(), "1"); err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected cache write, sets=%d", cache.sets)
	}

	if _, err := cat.Resolve(context.Background(), "1"); err != nil {
		t.Fatalf("cached resolve failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache hit must not rewrite, sets=%d", cache.sets)
	}
}

func TestCachedCatalog_FailsOpen(t *testing.T) {
	cache := &stubCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	cat := NewCachedCatalog(testCatalog(), cache, zerolog.Nop())

	class, err := cat.Resolve(context.Background(), "2")
	if err != nil {
		t.Fatalf("cache failure must not break resolution: %v", err)
	}
	if class.Name != "Data Structures" {
		t.Fatalf("unexpected class: %+v", class)
	}
}
