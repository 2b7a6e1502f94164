package services

import (
	"context"
	"log"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	firestoreClient *firestore.Client
	authClient      *auth.Client
	messagingClient *messaging.Client
	once            sync.Once
	initError       error
)

func InitFirebase(credentialsPath, projectID string) error {
	once.Do(func() {
		ctx := context.Background()

		log.Printf("[FIREBASE] Initializing Firebase with credentials: %s", credentialsPath)

		opt := option.WithCredentialsFile(credentialsPath)
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
		if err != nil {
			initError = err
			log.Printf("[FIREBASE][ERROR] Failed to init Firebase app: %v", err)
			return
		}

		firestoreClient, err = app.Firestore(ctx)
		if err != nil {
			initError = err
			log.Printf("[FIREBASE][ERROR] Failed to get Firestore client: %v", err)
			return
		}

		authClient, err = app.Auth(ctx)
		if err != nil {
			initError = err
			log.Printf("[FIREBASE][ERROR] Failed to get Auth client: %v", err)
			return
		}

		messagingClient, err = app.Messaging(ctx)
		if err != nil {
			initError = err
			log.Printf("[FIREBASE][ERROR] Failed to get Messaging client: %v", err)
			return
		}

		log.Println("[FIREBASE] Firestore, Auth and Messaging clients initialized successfully")
	})

	return initError
}

func GetFirestoreClient() (*firestore.Client, error) {
	if firestoreClient == nil {
		log.Printf("[FIREBASE][ERROR] Firestore client is nil (initError=%v)", initError)
		return nil, initError
	}
	return firestoreClient, nil
}

func GetAuthClient() (*auth.Client, error) {
	if authClient == nil {
		log.Printf("[FIREBASE][ERROR] Auth client is nil (initError=%v)", initError)
		return nil, initError
	}
	return authClient, nil
}

func GetMessagingClient() (*messaging.Client, error) {
	if messagingClient == nil {
		log.Printf("[FIREBASE][ERROR] Messaging client is nil (initError=%v)", initError)
		return nil, initError
	}
	return messagingClient, nil
}
