package store

import (
	"bytes"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	pqio "github.com/matzehuels/pathquery/pkg/io"
	"github.com/matzehuels/pathquery/pkg/network"
)

// Defaults for MongoOptions.
const (
	DefaultMongoDatabase   = "pathquery"
	DefaultMongoCollection = "networks"
)

// MongoOptions configures NewMongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	// Timeout bounds connecting and pinging. Defaults to 10s.
	Timeout time.Duration
}

// mongoDoc is the stored form of a network. The summary fields let List
// run without decoding every network.
type mongoDoc struct {
	Name         string    `bson:"_id"`
	Description  string    `bson:"description,omitempty"`
	Entities     int       `bson:"entities"`
	Interactions int       `bson:"interactions"`
	UpdatedAt    time.Time `bson:"updated_at"`
	Data         []byte    `bson:"data,omitempty"`
}

// MongoStore keeps networks in a MongoDB collection, one document per
// network with the network encoded as JSON.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidParameter, "mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.M{"data": 0}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "list networks")
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "list networks")
	}
	infos := make([]Info, len(docs))
	for i, d := range docs {
		infos[i] = Info{
			Name:         d.Name,
			Description:  d.Description,
			Entities:     d.Entities,
			Interactions: d.Interactions,
			UpdatedAt:    d.UpdatedAt,
		}
	}
	return infos, nil
}

// Load implements Store.
func (s *MongoStore) Load(ctx context.Context, name string) (*network.Network, error) {
	if err := pqerrors.ValidateName(name); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "load network %s", name)
	}
	n, err := pqio.ReadNetwork(bytes.NewReader(doc.Data), pqio.FormatJSON)
	if err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "decode network %s", name)
	}
	n.Name = name
	return n, nil
}

// Save implements Store.
func (s *MongoStore) Save(ctx context.Context, n *network.Network) error {
	if err := pqerrors.ValidateName(n.Name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := pqio.WriteNetwork(n, &buf, pqio.FormatJSON); err != nil {
		return pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "encode network %s", n.Name)
	}
	info := infoOf(n, time.Now().UTC())
	doc := mongoDoc{
		Name:         info.Name,
		Description:  info.Description,
		Entities:     info.Entities,
		Interactions: info.Interactions,
		UpdatedAt:    info.UpdatedAt,
		Data:         buf.Bytes(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": n.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "save network %s", n.Name)
	}
	return nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := pqerrors.ValidateName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "delete network %s", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

// Drop removes the whole collection. It exists for tests and resets.
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.coll.Drop(ctx)
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
