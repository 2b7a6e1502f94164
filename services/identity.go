package services

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"

	"github.com/social-feed-app/social-feed-backend/models"
)

// IdentityProvider is the external authentication boundary. The application
// never checks credentials itself; it only asks who a token belongs to,
// pushes display-name changes back to the provider, and revokes sessions on
// logout.
type IdentityProvider interface {
	Verify(ctx context.Context, idToken string) (models.Identity, error)
	UpdateDisplayName(ctx context.Context, uid, name string) error
	Revoke(ctx context.Context, uid string) error
}

// FirebaseIdentityProvider implements IdentityProvider on Firebase Auth.
type FirebaseIdentityProvider struct {
	client *auth.Client
}

func NewFirebaseIdentityProvider(client *auth.Client) *FirebaseIdentityProvider {
	return &FirebaseIdentityProvider{client: client}
}

func (p *FirebaseIdentityProvider) Verify(ctx context.Context, idToken string) (models.Identity, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return models.Identity{}, err
	}

	record, err := p.client.GetUser(ctx, token.UID)
	if err != nil {
		log.Printf("[AUTH] Failed to fetch user record for %s: %v", token.UID, err)
		return models.Identity{}, err
	}

	return models.Identity{
		ID:          record.UID,
		DisplayName: record.DisplayName,
		Email:       record.Email,
	}, nil
}

func (p *FirebaseIdentityProvider) UpdateDisplayName(ctx context.Context, uid, name string) error {
	update := (&auth.UserToUpdate{}).DisplayName(name)
	if _, err := p.client.UpdateUser(ctx, uid, update); err != nil {
		log.Printf("[AUTH] Failed to update display name for %s: %v", uid, err)
		return err
	}
	return nil
}

func (p *FirebaseIdentityProvider) Revoke(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		log.Printf("[AUTH] Failed to revoke refresh tokens for %s: %v", uid, err)
		return err
	}
	return nil
}
