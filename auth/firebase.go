package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

// TokenVerifier checks a Firebase ID token.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// UserManager creates and updates Firebase accounts.
type UserManager interface {
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
}

// Identity is the part of the Firebase auth client the backend uses.
// *fbauth.Client satisfies it.
type Identity interface {
	TokenVerifier
	UserManager
}

// NewFirebase builds the Firebase auth client from the service account JSON.
func NewFirebase(ctx context.Context, credentialsJSON, projectID string) (*fbauth.Client, error) {
	if credentialsJSON == "" || projectID == "" {
		return nil, errors.New("firebase credentials and project id are required")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	log.Printf("✅ Firebase auth ready for project %s", projectID)
	return client, nil
}
