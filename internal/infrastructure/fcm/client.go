package fcm

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/Manemax937/HostelApp/internal/config"
	"google.golang.org/api/option"
)

// NewClient initialises the Firebase app and returns its messaging client.
func NewClient(ctx context.Context, cfg *config.Config) (*messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	if err != nil {
		return nil, err
	}
	return app.Messaging(ctx)
}
