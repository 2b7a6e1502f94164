package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/store"
)

var (
	ErrCatalogEmpty     = errors.New("item catalog is empty")
	ErrItemNotInCatalog = errors.New("item is not in the catalog")
	ErrDuplicateItem    = errors.New("item is already in the list")
)

// Catalog caches the master item list used to validate wishlist and
// owned-item additions. Both checks are advisory: nothing re-validates at
// the store, so two writers racing past the same check can still produce a
// duplicate.
type Catalog struct {
	store store.Store

	mu    sync.Mutex
	names map[string]struct{}
}

func NewCatalog(st store.Store) *Catalog {
	return &Catalog{store: st, names: make(map[string]struct{})}
}

// Load fills the validation cache from the items collection. An empty
// catalog is a blocking error state whose recovery action is Seed.
func (c *Catalog) Load(ctx context.Context) error {
	docs, err := c.store.List(ctx, store.ItemsCollection)
	if err != nil {
		log.Printf("[CATALOG] Failed to list items: %v", err)
		return err
	}
	if len(docs) == 0 {
		return ErrCatalogEmpty
	}

	names := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if name, ok := doc.Data["name"].(string); ok {
			names[strings.ToLower(name)] = struct{}{}
		}
	}

	c.mu.Lock()
	c.names = names
	c.mu.Unlock()
	return nil
}

// Seed writes the fixed predefined items as one all-or-nothing batch and
// refreshes the cache. Entries are keyed by stable slugs, so re-running
// overwrites the same documents; concurrent double-seeding is not guarded
// against.
func (c *Catalog) Seed(ctx context.Context) error {
	writes := make([]store.Write, 0, len(models.PredefinedItems))
	for _, item := range models.PredefinedItems {
		writes = append(writes, store.Write{
			Collection: store.ItemsCollection,
			ID:         item.ID,
			Fields:     map[string]interface{}{"name": item.Name},
		})
	}

	if err := c.store.BatchSet(ctx, writes); err != nil {
		log.Printf("[CATALOG] Failed to seed items: %v", err)
		return err
	}

	names := make(map[string]struct{}, len(models.PredefinedItems))
	for _, item := range models.PredefinedItems {
		names[strings.ToLower(item.Name)] = struct{}{}
	}

	c.mu.Lock()
	c.names = names
	c.mu.Unlock()

	log.Printf("[CATALOG] Seeded %d items", len(models.PredefinedItems))
	return nil
}

// Validate checks that name matches a catalog entry case-insensitively and
// is not already present in the target list, again case-insensitively.
func (c *Catalog) Validate(name string, existing []string) error {
	c.mu.Lock()
	empty := len(c.names) == 0
	_, known := c.names[strings.ToLower(name)]
	c.mu.Unlock()

	if empty {
		return ErrCatalogEmpty
	}
	if !known {
		return ErrItemNotInCatalog
	}
	for _, e := range existing {
		if strings.EqualFold(e, name) {
			return ErrDuplicateItem
		}
	}
	return nil
}

// Items lists the catalog for display.
func (c *Catalog) Items(ctx context.Context) ([]models.Item, error) {
	docs, err := c.store.List(ctx, store.ItemsCollection)
	if err != nil {
		return nil, err
	}
	items := make([]models.Item, 0, len(docs))
	for _, doc := range docs {
		name, _ := doc.Data["name"].(string)
		items = append(items, models.Item{ID: doc.ID, Name: name})
	}
	return items, nil
}
