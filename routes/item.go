package routes

import (
	"github.com/gorilla/mux"

	"github.com/social-feed-app/social-feed-backend/handlers"
	"github.com/social-feed-app/social-feed-backend/services"
)

func CreateItemRoutes(catalog *services.Catalog, sessions *services.SessionManager, router *mux.Router) *mux.Router {
	router.HandleFunc("/items", handlers.GetItems(catalog)).Methods("GET")
	router.HandleFunc("/items/seed", handlers.RequireAuth(sessions, handlers.SeedItems(catalog))).Methods("POST")

	return router
}
