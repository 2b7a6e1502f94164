package services

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/store"
)

// fakeIdentityProvider records display-name updates; Verify and Revoke are
// not exercised by the profile service.
type fakeIdentityProvider struct {
	names map[string]string
}

func newFakeIdentityProvider() *fakeIdentityProvider {
	return &fakeIdentityProvider{names: make(map[string]string)}
}

func (p *fakeIdentityProvider) Verify(ctx context.Context, idToken string) (models.Identity, error) {
	return models.Identity{}, ErrInvalidSession
}

func (p *fakeIdentityProvider) UpdateDisplayName(ctx context.Context, uid, name string) error {
	p.names[uid] = name
	return nil
}

func (p *fakeIdentityProvider) Revoke(ctx context.Context, uid string) error {
	return nil
}

func newProfileFixture() (store.Store, *fakeIdentityProvider, *Catalog, *ProfileService) {
	st := store.NewMemoryStore()
	provider := newFakeIdentityProvider()
	mutator := NewMutator(st)
	catalog := NewCatalog(st)
	profiles := NewProfileService(st, provider, mutator, catalog)
	return st, provider, catalog, profiles
}

func TestGetOrCreateWritesDefaultProfile(t *testing.T) {
	st, _, _, profiles := newProfileFixture()
	ctx := context.Background()

	profile, err := profiles.GetOrCreate(ctx, testIdentity())
	assert.Equal(t, nil, err)
	assert.Equal(t, "Alice", profile.DisplayName)
	assert.Equal(t, models.DefaultBio, profile.Bio)
	assert.Equal(t, 0, len(profile.Wishlist))
	assert.Equal(t, 0, len(profile.OwnedItems))

	// The default document is persisted, not just returned.
	doc, err := st.Get(ctx, store.UsersCollection, "u1")
	assert.Equal(t, nil, err)
	assert.Equal(t, "Alice", doc.Data["displayName"])
}

func TestGetOrCreateFallsBackToAnonymous(t *testing.T) {
	_, _, _, profiles := newProfileFixture()

	profile, err := profiles.GetOrCreate(context.Background(), models.Identity{ID: "u7"})
	assert.Equal(t, nil, err)
	assert.Equal(t, "Anonymous", profile.DisplayName)
}

func TestGetOrCreateReturnsExistingProfile(t *testing.T) {
	st, _, _, profiles := newProfileFixture()
	ctx := context.Background()

	assert.Equal(t, nil, st.Merge(ctx, store.UsersCollection, "u1", map[string]interface{}{
		"displayName": "Custom",
		"bio":         "my bio",
	}))

	profile, err := profiles.GetOrCreate(ctx, testIdentity())
	assert.Equal(t, nil, err)
	assert.Equal(t, "Custom", profile.DisplayName)
	assert.Equal(t, "my bio", profile.Bio)
}

func TestUpdateDisplayNameReachesProviderAndProfile(t *testing.T) {
	st, provider, _, profiles := newProfileFixture()
	ctx := context.Background()

	assert.Equal(t, nil, profiles.UpdateDisplayName(ctx, "u1", "  Alice B  "))

	assert.Equal(t, "Alice B", provider.names["u1"])
	doc, _ := st.Get(ctx, store.UsersCollection, "u1")
	assert.Equal(t, "Alice B", doc.Data["displayName"])

	assert.Equal(t, ErrEmptyDisplayName, profiles.UpdateDisplayName(ctx, "u1", "   "))
}

func TestUpdateDisplayNameDoesNotRewriteOldPosts(t *testing.T) {
	st, _, _, profiles := newProfileFixture()
	mutator := NewMutator(st)
	ctx := context.Background()

	assert.Equal(t, nil, mutator.CreatePost(ctx, testIdentity(), "written as Alice"))
	assert.Equal(t, nil, profiles.UpdateDisplayName(ctx, "u1", "Renamed"))

	docs, _ := st.List(ctx, store.PostsCollection)
	post := models.PostFromDocument(docs[0].ID, docs[0].Data)
	assert.Equal(t, "Alice", post.AuthorName)
}

func TestAddItemValidScenario(t *testing.T) {
	st, _, catalog, profiles := newProfileFixture()
	ctx := context.Background()
	assert.Equal(t, nil, catalog.Seed(ctx))

	// Catalog holds "Laptop"; the user's casing is kept as entered.
	assert.Equal(t, nil, profiles.AddItem(ctx, testIdentity(), WishlistField, "Laptop"))

	doc, _ := st.Get(ctx, store.UsersCollection, "u1")
	profile := models.ProfileFromDocument(doc.Data)
	assert.Equal(t, []string{"Laptop"}, profile.Wishlist)

	// Adding "laptop" again is a case-insensitive duplicate.
	err := profiles.AddItem(ctx, testIdentity(), WishlistField, "laptop")
	assert.Equal(t, ErrDuplicateItem, err)

	doc, _ = st.Get(ctx, store.UsersCollection, "u1")
	assert.Equal(t, []string{"Laptop"}, models.ProfileFromDocument(doc.Data).Wishlist)
}

func TestAddItemAllowsCrossListDuplication(t *testing.T) {
	st, _, catalog, profiles := newProfileFixture()
	ctx := context.Background()
	assert.Equal(t, nil, catalog.Seed(ctx))

	assert.Equal(t, nil, profiles.AddItem(ctx, testIdentity(), WishlistField, "Laptop"))
	assert.Equal(t, nil, profiles.AddItem(ctx, testIdentity(), OwnedItemsField, "Laptop"))

	doc, _ := st.Get(ctx, store.UsersCollection, "u1")
	profile := models.ProfileFromDocument(doc.Data)
	assert.Equal(t, []string{"Laptop"}, profile.Wishlist)
	assert.Equal(t, []string{"Laptop"}, profile.OwnedItems)
}

func TestAddItemRejectsUnknownAndEmpty(t *testing.T) {
	_, _, catalog, profiles := newProfileFixture()
	ctx := context.Background()
	assert.Equal(t, nil, catalog.Seed(ctx))

	assert.Equal(t, ErrItemNotInCatalog, profiles.AddItem(ctx, testIdentity(), WishlistField, "Spaceship"))
	assert.Equal(t, ErrEmptyContent, profiles.AddItem(ctx, testIdentity(), WishlistField, "   "))
}

func TestAddItemBlockedByEmptyCatalog(t *testing.T) {
	_, _, _, profiles := newProfileFixture()

	err := profiles.AddItem(context.Background(), testIdentity(), WishlistField, "Laptop")
	assert.Equal(t, ErrCatalogEmpty, err)
}
