package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/services"
	"github.com/social-feed-app/social-feed-backend/store"
)

// GetFeed returns the current synchronized feed list. Until the first
// snapshot has arrived the state is "loading" and the list is empty.
func GetFeed(watcher *services.FeedWatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"state": watcher.State().String(),
			"posts": watcher.Posts(),
		})
	}
}

// CreatePost writes a new post for the authenticated identity. No optimistic
// response body: the feed updates through the subscription.
func CreatePost(mutator *services.Mutator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		err := mutator.CreatePost(r.Context(), identity, req.Content)
		if errors.Is(err, services.ErrEmptyContent) {
			http.Error(w, "content is required", http.StatusBadRequest)
			return
		}
		if errors.Is(err, services.ErrContentTooLong) {
			http.Error(w, "content must be at most 280 characters", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "Failed to create post", http.StatusInternalServerError)
			log.Println("CreatePost error:", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Post created",
		})
	}
}

// ToggleLike flips the caller's membership in the post's likes set. The
// request carries the caller's current liked flag as seen in their cached
// feed; it is not re-verified against the store before writing.
func ToggleLike(st store.Store, mutator *services.Mutator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		vars := mux.Vars(r)
		postID := vars["postId"]

		var req struct {
			Liked bool `json:"liked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := mutator.ToggleLike(r.Context(), postID, identity.ID, req.Liked); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "Post not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to toggle like", http.StatusInternalServerError)
			log.Println("ToggleLike error:", err)
			return
		}

		if !req.Liked {
			go services.NotifyPostLiked(st, postID, identity.ID)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"liked": !req.Liked,
		})
	}
}

// CreateComment appends a comment to a post. The 2-comment cap lives here at
// the request boundary only; a writer going straight to the store can still
// exceed it, and two requests racing each other past the check both land.
func CreateComment(st store.Store, mutator *services.Mutator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		vars := mux.Vars(r)
		postID := vars["postId"]

		var req struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		doc, err := st.Get(r.Context(), store.PostsCollection, postID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch post", http.StatusInternalServerError)
			log.Println("CreateComment fetch error:", err)
			return
		}

		post := models.PostFromDocument(doc.ID, doc.Data)
		if len(post.Comments) >= models.MaxCommentsPerPost {
			http.Error(w, "Maximum number of comments reached (2)", http.StatusConflict)
			return
		}

		comment, err := mutator.AddComment(r.Context(), postID, identity, req.Content)
		if errors.Is(err, services.ErrEmptyContent) {
			http.Error(w, "Comment content is required", http.StatusBadRequest)
			return
		}
		if errors.Is(err, services.ErrContentTooLong) {
			http.Error(w, "Comment must be at most 100 characters", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "Failed to create comment", http.StatusInternalServerError)
			log.Println("CreateComment error:", err)
			return
		}

		go services.NotifyPostCommented(st, postID, identity.ID, comment.Content)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(comment)
	}
}
