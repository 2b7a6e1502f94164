package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/services"
)

// GetItems lists the master item catalog.
func GetItems(catalog *services.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := catalog.Items(r.Context())
		if err != nil {
			http.Error(w, "Failed to fetch items", http.StatusInternalServerError)
			log.Println("GetItems error:", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}

// SeedItems writes the predefined catalog as one batch. This is the recovery
// action for the empty-catalog error state.
func SeedItems(catalog *services.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalog.Seed(r.Context()); err != nil {
			http.Error(w, "Failed to seed items", http.StatusInternalServerError)
			log.Println("SeedItems error:", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Item catalog seeded",
			"count":   len(models.PredefinedItems),
		})
	}
}
