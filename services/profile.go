package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/store"
)

var ErrEmptyDisplayName = errors.New("display name is empty")

// Profile list keys. These are the document field names.
const (
	WishlistField   = "wishlist"
	OwnedItemsField = "ownedItems"
)

// ProfileService manages the one-per-identity profile document. Profiles are
// created lazily with defaults on first read.
type ProfileService struct {
	store    store.Store
	identity IdentityProvider
	mutator  *Mutator
	catalog  *Catalog
}

func NewProfileService(st store.Store, provider IdentityProvider, mutator *Mutator, catalog *Catalog) *ProfileService {
	return &ProfileService{store: st, identity: provider, mutator: mutator, catalog: catalog}
}

// GetOrCreate returns the identity's profile, writing the default one first
// if none exists yet.
func (s *ProfileService) GetOrCreate(ctx context.Context, identity models.Identity) (models.UserProfile, error) {
	doc, err := s.store.Get(ctx, store.UsersCollection, identity.ID)
	if err == nil {
		return models.ProfileFromDocument(doc.Data), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[PROFILE] Failed to fetch profile for %s: %v", identity.ID, err)
		return models.UserProfile{}, err
	}

	profile := models.DefaultProfile(identity.DisplayName)
	fields := map[string]interface{}{
		"displayName":   profile.DisplayName,
		"bio":           profile.Bio,
		WishlistField:   []interface{}{},
		OwnedItemsField: []interface{}{},
	}
	if err := s.store.Merge(ctx, store.UsersCollection, identity.ID, fields); err != nil {
		log.Printf("[PROFILE] Failed to create default profile for %s: %v", identity.ID, err)
		return models.UserProfile{}, err
	}
	return profile, nil
}

// UpdateDisplayName writes the new name both to the identity provider and to
// the profile document. Posts and comments keep the name they were created
// with; the two records can also drift if one write fails.
func (s *ProfileService) UpdateDisplayName(ctx context.Context, uid, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyDisplayName
	}

	if err := s.identity.UpdateDisplayName(ctx, uid, name); err != nil {
		return err
	}
	return s.mutator.SaveProfile(ctx, uid, map[string]interface{}{"displayName": name})
}

// UpdateBio merges the bio field. No length cap applies.
func (s *ProfileService) UpdateBio(ctx context.Context, uid, bio string) error {
	return s.mutator.SaveProfile(ctx, uid, map[string]interface{}{"bio": bio})
}

// AddItem validates name against the catalog and the target list, then
// merge-writes the extended list. Validation is local only; see Catalog.
func (s *ProfileService) AddItem(ctx context.Context, identity models.Identity, listField, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyContent
	}

	profile, err := s.GetOrCreate(ctx, identity)
	if err != nil {
		return err
	}

	current := profile.Wishlist
	if listField == OwnedItemsField {
		current = profile.OwnedItems
	}

	if err := s.catalog.Validate(name, current); err != nil {
		return err
	}

	updated := make([]interface{}, 0, len(current)+1)
	for _, item := range current {
		updated = append(updated, item)
	}
	updated = append(updated, name)

	return s.mutator.SaveProfile(ctx, identity.ID, map[string]interface{}{listField: updated})
}
