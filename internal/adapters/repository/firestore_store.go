package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/classdash/core/internal/ports"
)

type kvDocument struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FirestoreStore keeps one document per key in a collection
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore creates a Firestore client for projectID
func NewFirestoreStore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{
		client:     client,
		collection: collection,
	}, nil
}

var _ ports.KeyValueStore = (*FirestoreStore)(nil)

func (s *FirestoreStore) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get document %q: %w", key, err)
	}

	var rec kvDocument
	if err := doc.DataTo(&rec); err != nil {
		return "", false, fmt.Errorf("failed to decode document %q: %w", key, err)
	}

	return rec.Value, true, nil
}

func (s *FirestoreStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.Collection(s.collection).Doc(key).Set(ctx, kvDocument{
		Value:     value,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to set document %q: %w", key, err)
	}

	return nil
}

func (s *FirestoreStore) Remove(ctx context.Context, key string) error {
	_, err := s.client.Collection(s.collection).Doc(key).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to delete document %q: %w", key, err)
	}

	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
