package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/routes"
	"github.com/social-feed-app/social-feed-backend/services"
	"github.com/social-feed-app/social-feed-backend/store"
)

// stubIdentityProvider resolves a fixed token to a fixed identity.
type stubIdentityProvider struct {
	identity models.Identity
	revoked  bool
}

func (p *stubIdentityProvider) Verify(ctx context.Context, idToken string) (models.Identity, error) {
	if idToken != "valid-provider-token" {
		return models.Identity{}, errors.New("unknown token")
	}
	return p.identity, nil
}

func (p *stubIdentityProvider) UpdateDisplayName(ctx context.Context, uid, name string) error {
	p.identity.DisplayName = name
	return nil
}

func (p *stubIdentityProvider) Revoke(ctx context.Context, uid string) error {
	p.revoked = true
	return nil
}

type fixture struct {
	router   *mux.Router
	store    *store.MemoryStore
	watcher  *services.FeedWatcher
	sessions *services.SessionManager
	provider *stubIdentityProvider
	identity models.Identity
	token    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.NewMemoryStore()
	identity := models.Identity{ID: "u1", DisplayName: "Alice", Email: "alice@example.com"}
	provider := &stubIdentityProvider{identity: identity}
	sessions := services.NewSessionManager("test-secret")
	mutator := services.NewMutator(st)
	catalog := services.NewCatalog(st)
	profiles := services.NewProfileService(st, provider, mutator, catalog)

	watcher, err := services.WatchFeed(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(watcher.Close)

	router := mux.NewRouter()
	routes.CreateAuthRoutes(provider, sessions, router)
	routes.CreatePostRoutes(st, watcher, mutator, sessions, router)
	routes.CreateUserRoutes(st, profiles, sessions, router)
	routes.CreateItemRoutes(catalog, sessions, router)

	token, err := sessions.Issue(identity)
	if err != nil {
		t.Fatal(err)
	}

	return &fixture{
		router:   router,
		store:    st,
		watcher:  watcher,
		sessions: sessions,
		provider: provider,
		identity: identity,
		token:    token,
	}
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}
