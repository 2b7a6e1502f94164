package routes

import (
	"github.com/gorilla/mux"

	"github.com/social-feed-app/social-feed-backend/handlers"
	"github.com/social-feed-app/social-feed-backend/services"
)

func CreateAuthRoutes(provider services.IdentityProvider, sessions *services.SessionManager, router *mux.Router) *mux.Router {
	router.HandleFunc("/auth/session", handlers.CreateSession(provider, sessions)).Methods("POST")
	router.HandleFunc("/auth/session", handlers.RequireAuth(sessions, handlers.DeleteSession(provider))).Methods("DELETE")

	return router
}
