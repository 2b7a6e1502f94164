package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/services"
)

type contextKey string

const identityContextKey contextKey = "identity"

// CreateSession exchanges a provider-issued ID token for a session token.
// Credential checking stays with the identity provider; this endpoint only
// verifies and repackages.
func CreateSession(provider services.IdentityProvider, sessions *services.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDToken string `json:"id_token"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.IDToken == "" {
			http.Error(w, "id_token is required", http.StatusBadRequest)
			return
		}

		identity, err := provider.Verify(r.Context(), req.IDToken)
		if err != nil {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			log.Println("CreateSession verify error:", err)
			return
		}

		token, err := sessions.Issue(identity)
		if err != nil {
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			log.Println("CreateSession issue error:", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":    token,
			"identity": identity,
		})
	}
}

// DeleteSession revokes the identity's refresh tokens (logout).
func DeleteSession(provider services.IdentityProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := provider.Revoke(r.Context(), identity.ID); err != nil {
			http.Error(w, "Failed to end session", http.StatusInternalServerError)
			log.Println("DeleteSession revoke error:", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Session ended",
		})
	}
}

// RequireAuth wraps a handler with bearer-token session parsing. The parsed
// identity rides the request context.
func RequireAuth(sessions *services.SessionManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		identity, err := sessions.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// IdentityFromRequest returns the authenticated identity placed on the
// request context by RequireAuth.
func IdentityFromRequest(r *http.Request) (models.Identity, bool) {
	identity, ok := r.Context().Value(identityContextKey).(models.Identity)
	return identity, ok
}
