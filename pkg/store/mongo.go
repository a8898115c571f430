package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shwetalj/jobcanvas/pkg/errors"
	"github.com/shwetalj/jobcanvas/pkg/observability"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// Mongo store defaults.
const (
	DefaultMongoDatabase   = "jobcanvas"
	DefaultMongoCollection = "workflows"
)

// MongoOptions configures a MongoDB-backed store.
type MongoOptions struct {
	Database   string
	Collection string
}

// SetDefaults fills unset fields. Idempotent.
func (o *MongoOptions) SetDefaults() {
	if o.Database == "" {
		o.Database = DefaultMongoDatabase
	}
	if o.Collection == "" {
		o.Collection = DefaultMongoCollection
	}
}

// MongoStore persists workflows in a MongoDB collection, one document per
// named workflow keyed by name. The hosted API uses this backend.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a store on an existing client. The client's lifecycle
// belongs to the caller; this type never disconnects it.
func NewMongoStore(client *mongo.Client, opts MongoOptions) *MongoStore {
	opts.SetDefaults()
	return &MongoStore{coll: client.Database(opts.Database).Collection(opts.Collection)}
}

// EnsureIndexes creates the unique index on workflow name. Call once at
// startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create workflow index: %w", err)
	}
	return nil
}

// Load implements [Store].
func (s *MongoStore) Load(ctx context.Context, name string) (*Record, error) {
	rec, err := s.load(ctx, name)
	observability.Store().OnLoad(name, err)
	return rec, err
}

func (s *MongoStore) load(ctx context.Context, name string) (*Record, error) {
	if err := errors.ValidateWorkflowName(name); err != nil {
		return nil, err
	}

	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load workflow %q: %w", name, err)
	}
	return &rec, nil
}

// Save implements [Store].
func (s *MongoStore) Save(ctx context.Context, name string, doc workflow.Document) error {
	size := len(doc.Jobs)
	err := s.save(ctx, name, doc)
	observability.Store().OnSave(name, size, err)
	return err
}

func (s *MongoStore) save(ctx context.Context, name string, doc workflow.Document) error {
	if err := errors.ValidateWorkflowName(name); err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"document":   doc,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"name":       name,
			"created_at": now,
		},
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"name": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save workflow %q: %w", name, err)
	}
	return nil
}

// Delete implements [Store].
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateWorkflowName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return fmt.Errorf("delete workflow %q: %w", name, err)
	}
	return nil
}

// List implements [Store].
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"name": 1}).SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var rec struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode workflow name: %w", err)
		}
		names = append(names, rec.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflows: %w", err)
	}
	return names, nil
}

var _ Store = (*MongoStore)(nil)
