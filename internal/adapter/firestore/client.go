// Package firestore stores forests, guardian adoptions, and the alert ledger
// in Cloud Firestore.
package firestore

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// Collection names.
const (
	forestsCollection   = "forests"
	adoptionsCollection = "adopted_forests"
	alertsCollection    = "alerts_sent"
)

// NewClient initializes a Firestore client through the Firebase Admin SDK.
// encodedCreds is a base64 service-account JSON; when empty, application
// default credentials are used, which also covers FIRESTORE_EMULATOR_HOST.
func NewClient(ctx context.Context, projectID, encodedCreds string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if encodedCreds != "" {
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("decode firebase credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}
