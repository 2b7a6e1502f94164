package models

import "strings"

// Identity is the authenticated user as reported by the identity provider.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// PostName is the author name snapshotted onto posts and comments: display
// name, else the local part of the email, else "Anonymous".
func (i Identity) PostName() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.Email != "" {
		if at := strings.Index(i.Email, "@"); at > 0 {
			return i.Email[:at]
		}
		return i.Email
	}
	return "Anonymous"
}
