// Package mongostore implements the homesite content store on MongoDB.
// Posts live in one collection; a separate counters document hands out
// post ids atomically so concurrent creates can never collide.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hmdev/homesite"
)

const (
	postsCollection    = "blogs"
	countersCollection = "counters"
	postsCounterKey    = "blogs"

	readyTimeout = 2 * time.Second
)

// Store is a MongoDB-backed homesite.ContentStore.
type Store struct {
	client   *mongo.Client
	posts    *mongo.Collection
	counters *mongo.Collection
}

// Open connects a client for the given URI and database name. The server
// does not have to be reachable at open time: the driver dials in the
// background and Ready reports the current state, so a site can come up
// before its database and serve degraded listings until it connects.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		posts:    db.Collection(postsCollection),
		counters: db.Collection(countersCollection),
	}

	// Index creation is best-effort: if the server is down now, lookups
	// just run unindexed until a restart with a reachable server.
	idxCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	_, _ = s.posts.Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return s, nil
}

// Ready reports whether the server currently answers a ping.
func (s *Store) Ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary()) == nil
}

// AllocateID reserves the next post id via an atomic $inc upsert on the
// counters document.
func (s *Store) AllocateID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": postsCounterKey},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate post id: %w", err)
	}
	return counter.Seq, nil
}

// List returns matching posts in insertion (id) order.
func (s *Store) List(ctx context.Context, f homesite.ListFilter) ([]homesite.BlogPost, error) {
	filter := bson.M{}
	if f.Public != nil {
		filter["public"] = *f.Public
	}
	if f.Hidden != nil {
		filter["hidden"] = *f.Hidden
	}

	cursor, err := s.posts.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []homesite.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// Get returns the post with the given id.
func (s *Store) Get(ctx context.Context, id int64) (homesite.BlogPost, error) {
	var post homesite.BlogPost
	err := s.posts.FindOne(ctx, bson.M{"id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return homesite.BlogPost{}, homesite.ErrNotFound
	}
	if err != nil {
		return homesite.BlogPost{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}

// Insert persists a new post under its pre-allocated id.
func (s *Store) Insert(ctx context.Context, p homesite.BlogPost) error {
	if _, err := s.posts.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post %d: %w", p.ID, err)
	}
	return nil
}

// Update rewrites every stored field except the view counter.
func (s *Store) Update(ctx context.Context, p homesite.BlogPost) error {
	res, err := s.posts.UpdateOne(ctx,
		bson.M{"id": p.ID},
		bson.M{"$set": bson.M{
			"title":       p.Title,
			"body":        p.Body,
			"html":        p.HTML,
			"slug":        p.Slug,
			"teaser":      p.Teaser,
			"public":      p.Public,
			"hidden":      p.Hidden,
			"publishedAt": p.PublishedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return homesite.ErrNotFound
	}
	return nil
}

// Delete removes the post entirely.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.posts.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return homesite.ErrNotFound
	}
	return nil
}

// IncrementViews adds one to the post's view counter.
func (s *Store) IncrementViews(ctx context.Context, id int64) error {
	res, err := s.posts.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$inc": bson.M{"viewCount": 1}},
	)
	if err != nil {
		return fmt.Errorf("increment views for post %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return homesite.ErrNotFound
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
