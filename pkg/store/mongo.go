package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/treescape/pkg/scene"
	"github.com/matzehuels/treescape/pkg/tree"
)

// DefaultMongoCollection is the collection used by [OpenMongo].
const DefaultMongoCollection = "trees"

// MongoStore keeps one document per tree, with the root ID as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoTree struct {
	Root      string     `bson:"_id"`
	Tree      scene.Tree `bson:"tree"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// OpenMongo connects to uri and uses database.trees.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultMongoCollection),
	}, nil
}

func toMongo(s tree.Snapshot) (mongoTree, error) {
	if s.IsEmpty() {
		return mongoTree{}, tree.ErrMissingRoot
	}
	return mongoTree{Root: s.RootID, Tree: scene.FromSnapshot(s), UpdatedAt: time.Now().UTC()}, nil
}

func (m *MongoStore) Create(ctx context.Context, s tree.Snapshot) error {
	doc, err := toMongo(s)
	if err != nil {
		return err
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExists
		}
		return fmt.Errorf("insert %q: %w", s.RootID, err)
	}
	return nil
}

func (m *MongoStore) Get(ctx context.Context, root string) (tree.Snapshot, error) {
	var doc mongoTree
	err := m.coll.FindOne(ctx, bson.M{"_id": root}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tree.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return tree.Snapshot{}, fmt.Errorf("find %q: %w", root, err)
	}
	s, err := scene.ToSnapshot(doc.Tree)
	if err != nil {
		return tree.Snapshot{}, fmt.Errorf("decode %q: %w", root, err)
	}
	return s, nil
}

func (m *MongoStore) Put(ctx context.Context, s tree.Snapshot) error {
	doc, err := toMongo(s)
	if err != nil {
		return err
	}
	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": s.RootID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %q: %w", s.RootID, err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, root string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": root})
	if err != nil {
		return fmt.Errorf("delete %q: %w", root, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer cur.Close(ctx)

	var roots []string
	for cur.Next(ctx) {
		var doc struct {
			Root string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		roots = append(roots, doc.Root)
	}
	return roots, cur.Err()
}

func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
