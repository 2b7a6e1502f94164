package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/social-feed-app/social-feed-backend/services"
	"github.com/social-feed-app/social-feed-backend/store"
)

func main() {
	godotenv.Load()

	firebasePath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if firebasePath == "" {
		log.Fatal("FIREBASE_CREDENTIALS_PATH not set")
	}

	if err := services.InitFirebase(firebasePath, os.Getenv("GOOGLE_CLOUD_PROJECT")); err != nil {
		log.Fatal("SeedItems: Firebase init failed: ", err)
	}

	fsClient, err := services.GetFirestoreClient()
	if err != nil {
		log.Fatal("SeedItems: Firestore client unavailable: ", err)
	}

	st := store.NewFirestoreStore(fsClient)
	catalog := services.NewCatalog(st)

	log.Println("⏰ Seeding master item catalog")
	if err := catalog.Seed(context.Background()); err != nil {
		log.Fatal("SeedItems: seed failed: ", err)
	}
	log.Println("✅ Item catalog seeded")
}
