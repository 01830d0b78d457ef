// Package mongostore implements the sauce and user repositories on MongoDB,
// storing each sauce as a single document keyed by its object id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/models"
	"github.com/rohits-web03/piiquante/internal/repositories"
	"github.com/rohits-web03/piiquante/internal/votes"
)

const (
	saucesCollection = "sauces"
	usersCollection  = "users"
)

// Connect opens a client, pings it and ensures the unique email index.
func Connect(ctx context.Context, uri, database string, log *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	if err := EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	log.Info("Successfully connected to mongo", zap.String("database", database))
	return client, db, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo users index: %w", err)
	}
	_, err = db.Collection(saucesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo sauces index: %w", err)
	}
	return nil
}

type SauceRepository struct {
	coll *mongo.Collection
}

func NewSauceRepository(db *mongo.Database) *SauceRepository {
	return &SauceRepository{coll: db.Collection(saucesCollection)}
}

func (r *SauceRepository) List(ctx context.Context) ([]models.Sauce, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	out := []models.Sauce{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (r *SauceRepository) Get(ctx context.Context, id string) (*models.Sauce, error) {
	var s models.Sauce
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	s.Normalize()
	return &s, nil
}

func (r *SauceRepository) Create(ctx context.Context, sauce *models.Sauce) error {
	sauce.Prepare()
	now := time.Now().UTC()
	sauce.CreatedAt, sauce.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, sauce); err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (r *SauceRepository) Update(ctx context.Context, sauce *models.Sauce) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": sauce.ID}, bson.M{
		"$set": bson.M{
			"name":         sauce.Name,
			"manufacturer": sauce.Manufacturer,
			"description":  sauce.Description,
			"mainPepper":   sauce.MainPepper,
			"heat":         sauce.Heat,
			"imageUrl":     sauce.ImageURL,
			"updatedAt":    time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return fmt.Errorf("mongo update: %w", err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *SauceRepository) UpdateVotes(ctx context.Context, id string, expectedVersion int64, out votes.Outcome) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if out.Fields.Has(votes.FieldLikes) {
		set["likes"] = out.State.Likes
	}
	if out.Fields.Has(votes.FieldDislikes) {
		set["dislikes"] = out.State.Dislikes
	}
	if out.Fields.Has(votes.FieldUsersLiked) {
		set["usersLiked"] = nonNil(out.State.LikedBy)
	}
	if out.Fields.Has(votes.FieldUsersDisliked) {
		set["usersDisliked"] = nonNil(out.State.DislikedBy)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "version": expectedVersion},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return fmt.Errorf("mongo update votes: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo count: %w", err)
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrVersionConflict
}

func (r *SauceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Prepare()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicateEmail
		}
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	return &u, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
