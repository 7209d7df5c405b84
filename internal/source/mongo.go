package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gyeh/locsync/internal/model"
)

// Ensure MongoStore implements the interface.
var _ Store = (*MongoStore)(nil)

// MongoStore reads and deletes location documents in a MongoDB database.
// One client is shared by every unit; Close it when the process exits.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// mongoDocument is a location document together with its id.
type mongoDocument struct {
	ID                any `bson:"_id"`
	model.RawLocation `bson:",inline"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetConnectTimeout(10 * time.Second)
	clientOptions.SetMaxPoolSize(20)
	clientOptions.SetMaxConnIdleTime(30 * time.Second)
	clientOptions.SetRetryReads(true)
	clientOptions.SetRetryWrites(true)
	clientOptions.SetCompressors([]string{"snappy"})

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// FetchAll reads the whole collection. No filter, cursor position or
// watermark is kept between calls.
func (s *MongoStore) FetchAll(ctx context.Context, collection string) ([]model.SourceDocument, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, options.Find().SetBatchSize(1000))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []model.SourceDocument
	for cursor.Next(ctx) {
		var d mongoDocument
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode document in %s: %w", collection, err)
		}
		docs = append(docs, model.SourceDocument{
			Ref: model.DocRef{Collection: collection, ID: idString(d.ID), Key: d.ID},
			Raw: d.RawLocation,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error in %s: %w", collection, err)
	}
	return docs, nil
}

// DeleteBatch removes the referenced documents with a single DeleteMany.
func (s *MongoStore) DeleteBatch(ctx context.Context, collection string, refs []model.DocRef) (int64, error) {
	if err := validateCollection(collection); err != nil {
		return 0, err
	}
	if len(refs) == 0 {
		return 0, nil
	}

	keys := make(bson.A, 0, len(refs))
	for _, r := range refs {
		keys = append(keys, r.Key)
	}
	res, err := s.db.Collection(collection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

// InsertMany writes raw documents into a collection. Used to seed fixtures.
func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []any) (int, error) {
	if err := validateCollection(collection); err != nil {
		return 0, err
	}
	res, err := s.db.Collection(collection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return len(res.InsertedIDs), nil
}

// Close disconnects the shared client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func validateCollection(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is empty")
	}
	if strings.ContainsAny(name, "$\x00") || strings.HasPrefix(name, "system.") {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}

func idString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
