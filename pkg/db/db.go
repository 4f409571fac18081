package db

import (
	"context"
	"errors"
	"fmt"

	"meet-transcript/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Store = (*Client)(nil)

// Client wraps the MongoDB client and the transcript collection.
type Client struct {
	mongoClient *mongo.Client
	collection  *mongo.Collection
}

// NewClient creates a new database client
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return client with nil - error will be caught during Connect()
		return &Client{}
	}

	return &Client{
		mongoClient: mongoClient,
		collection:  mongoClient.Database(databaseName).Collection(collectionName),
	}
}

// Connect verifies the MongoDB connection.
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// SaveTranscript upserts a transcript by ID.
func (c *Client) SaveTranscript(ctx context.Context, t *domain.Transcript) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"_id": t.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := c.collection.ReplaceOne(ctx, filter, t, opts); err != nil {
		return fmt.Errorf("save transcript %s: %w", t.ID, err)
	}
	return nil
}

// GetTranscript loads a transcript by ID.
func (c *Client) GetTranscript(ctx context.Context, id string) (*domain.Transcript, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	var t domain.Transcript
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript %s: %w", id, err)
	}
	return &t, nil
}

// ListTranscripts returns every transcript in the collection, oldest first.
func (c *Client) ListTranscripts(ctx context.Context) ([]*domain.Transcript, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := c.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Transcript
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode transcripts: %w", err)
	}
	return out, nil
}
