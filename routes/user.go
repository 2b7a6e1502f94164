package routes

import (
	"github.com/gorilla/mux"

	"github.com/social-feed-app/social-feed-backend/handlers"
	"github.com/social-feed-app/social-feed-backend/services"
	"github.com/social-feed-app/social-feed-backend/store"
)

func CreateUserRoutes(st store.Store, profiles *services.ProfileService, sessions *services.SessionManager, router *mux.Router) *mux.Router {

	router.HandleFunc("/users/{id}/profile", handlers.RequireAuth(sessions, handlers.GetProfile(profiles))).Methods("GET")
	router.HandleFunc("/users/{id}/profile", handlers.RequireAuth(sessions, handlers.UpdateProfile(profiles))).Methods("PUT")
	router.HandleFunc("/users/{id}/wishlist", handlers.RequireAuth(sessions, handlers.AddListItem(profiles, services.WishlistField))).Methods("POST")
	router.HandleFunc("/users/{id}/owned", handlers.RequireAuth(sessions, handlers.AddListItem(profiles, services.OwnedItemsField))).Methods("POST")
	router.HandleFunc("/users/{id}/devices", handlers.RequireAuth(sessions, handlers.RegisterDevice(st))).Methods("POST")

	return router
}
