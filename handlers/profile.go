package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/social-feed-app/social-feed-backend/services"
	"github.com/social-feed-app/social-feed-backend/store"
)

// GetProfile fetches the caller's profile, creating the default document on
// first visit. Profiles are owner-only.
func GetProfile(profiles *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		vars := mux.Vars(r)
		if vars["id"] != identity.ID {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}

		profile, err := profiles.GetOrCreate(r.Context(), identity)
		if err != nil {
			http.Error(w, "Failed to load profile", http.StatusInternalServerError)
			log.Println("GetProfile error:", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profile)
	}
}

// UpdateProfile merges display name and/or bio. A display-name change also
// goes to the identity provider; existing posts and comments keep the name
// they were created with, which the response points out.
func UpdateProfile(profiles *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		vars := mux.Vars(r)
		if vars["id"] != identity.ID {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}

		var req struct {
			DisplayName *string `json:"display_name"`
			Bio         *string `json:"bio"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.DisplayName == nil && req.Bio == nil {
			http.Error(w, "Nothing to update", http.StatusBadRequest)
			return
		}

		resp := map[string]string{"message": "Profile updated"}

		if req.DisplayName != nil {
			err := profiles.UpdateDisplayName(r.Context(), identity.ID, *req.DisplayName)
			if errors.Is(err, services.ErrEmptyDisplayName) {
				http.Error(w, "display_name is required", http.StatusBadRequest)
				return
			}
			if err != nil {
				http.Error(w, "Failed to update display name", http.StatusInternalServerError)
				log.Println("UpdateProfile display name error:", err)
				return
			}
			resp["note"] = "Existing posts and comments will not reflect this change."
		}

		if req.Bio != nil {
			if err := profiles.UpdateBio(r.Context(), identity.ID, *req.Bio); err != nil {
				http.Error(w, "Failed to update bio", http.StatusInternalServerError)
				log.Println("UpdateProfile bio error:", err)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// AddListItem adds a catalog item to the caller's wishlist or owned list.
func AddListItem(profiles *services.ProfileService, listField string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		vars := mux.Vars(r)
		if vars["id"] != identity.ID {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}

		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		err := profiles.AddItem(r.Context(), identity, listField, req.Name)
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		case errors.Is(err, services.ErrCatalogEmpty):
			http.Error(w, "Master item list not found. Please seed the database.", http.StatusConflict)
			return
		case errors.Is(err, services.ErrItemNotInCatalog):
			http.Error(w, "'"+req.Name+"' is not a valid item.", http.StatusBadRequest)
			return
		case errors.Is(err, services.ErrDuplicateItem):
			http.Error(w, "'"+req.Name+"' is already in this list.", http.StatusConflict)
			return
		case err != nil:
			http.Error(w, "Failed to add item", http.StatusInternalServerError)
			log.Println("AddListItem error:", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Item added",
		})
	}
}

// RegisterDevice stores an FCM device token on the caller's profile so
// like/comment notifications can reach them. Union keeps tokens unique.
func RegisterDevice(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		vars := mux.Vars(r)
		if vars["id"] != identity.ID {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}

		var req struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			http.Error(w, "token is required", http.StatusBadRequest)
			return
		}

		// Merge first so the document exists for the field-level update.
		if err := st.Merge(r.Context(), store.UsersCollection, identity.ID, map[string]interface{}{}); err != nil {
			http.Error(w, "Failed to register device", http.StatusInternalServerError)
			log.Println("RegisterDevice merge error:", err)
			return
		}
		if err := st.ArrayUnion(r.Context(), store.UsersCollection, identity.ID, "fcmTokens", req.Token); err != nil {
			http.Error(w, "Failed to register device", http.StatusInternalServerError)
			log.Println("RegisterDevice error:", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Device registered",
		})
	}
}
