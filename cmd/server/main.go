package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/social-feed-app/social-feed-backend/logging"
	"github.com/social-feed-app/social-feed-backend/routes"
	"github.com/social-feed-app/social-feed-backend/services"
	"github.com/social-feed-app/social-feed-backend/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logging.Warn.Println("No .env file found, relying on environment")
	}

	firebasePath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if firebasePath == "" {
		logging.Error.Fatal("FIREBASE_CREDENTIALS_PATH not set")
	}
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logging.Error.Fatal("SESSION_SECRET not set")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := services.InitFirebase(firebasePath, projectID); err != nil {
		logging.Error.Fatal("Firebase init failed: ", err)
	}

	fsClient, err := services.GetFirestoreClient()
	if err != nil {
		logging.Error.Fatal("Firestore client unavailable: ", err)
	}
	authClient, err := services.GetAuthClient()
	if err != nil {
		logging.Error.Fatal("Auth client unavailable: ", err)
	}

	st := store.NewFirestoreStore(fsClient)
	provider := services.NewFirebaseIdentityProvider(authClient)
	sessions := services.NewSessionManager(sessionSecret)
	mutator := services.NewMutator(st)
	catalog := services.NewCatalog(st)
	profiles := services.NewProfileService(st, provider, mutator, catalog)

	ctx := context.Background()

	if err := catalog.Load(ctx); err != nil {
		if errors.Is(err, services.ErrCatalogEmpty) {
			logging.Warn.Println("Item catalog is empty; run cmd/seed_items or POST /items/seed")
		} else {
			logging.Error.Fatal("Failed to load item catalog: ", err)
		}
	}

	watcher, err := services.WatchFeed(ctx, st)
	if err != nil {
		logging.Error.Fatal("Failed to start feed watcher: ", err)
	}
	defer watcher.Close()

	router := mux.NewRouter()
	routes.CreateAuthRoutes(provider, sessions, router)
	routes.CreatePostRoutes(st, watcher, mutator, sessions, router)
	routes.CreateUserRoutes(st, profiles, sessions, router)
	routes.CreateItemRoutes(catalog, sessions, router)

	logging.Info.Printf("Social feed backend listening on :%s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logging.Error.Fatal(err)
	}
}
