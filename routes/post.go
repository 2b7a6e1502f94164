package routes

import (
	"github.com/gorilla/mux"

	"github.com/social-feed-app/social-feed-backend/handlers"
	"github.com/social-feed-app/social-feed-backend/services"
	"github.com/social-feed-app/social-feed-backend/store"
)

func CreatePostRoutes(st store.Store, watcher *services.FeedWatcher, mutator *services.Mutator, sessions *services.SessionManager, router *mux.Router) *mux.Router {
	router.HandleFunc("/posts", handlers.GetFeed(watcher)).Methods("GET")
	router.HandleFunc("/posts/stream", handlers.StreamFeed(watcher)).Methods("GET")
	router.HandleFunc("/posts", handlers.RequireAuth(sessions, handlers.CreatePost(mutator))).Methods("POST")
	router.HandleFunc("/posts/{postId}/like", handlers.RequireAuth(sessions, handlers.ToggleLike(st, mutator))).Methods("POST")
	router.HandleFunc("/posts/{postId}/comments", handlers.RequireAuth(sessions, handlers.CreateComment(st, mutator))).Methods("POST")

	return router
}
