package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stateDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// Store keeps client state as one document per key in MongoDB.
type Store struct {
	Client          *mongo.Client
	StateCollection *mongo.Collection
}

func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	log.Printf("[db] connected to MongoDB database %q", database)
	return &Store{
		Client:          client,
		StateCollection: client.Database(database).Collection("client_state"),
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var doc stateDoc
	err := s.StateCollection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db: find %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.StateCollection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("db: upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.StateCollection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("db: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
