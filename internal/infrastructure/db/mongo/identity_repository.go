package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

const (
	UsersCollection  = "users"
	AdminsCollection = "admins"
)

// IdentityRepository stores one credential pool. Users and admins live in
// separate collections so the pools never share sign-in keys.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database, collection string) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(collection)}
}

type mongoIdentity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Mobile       string             `bson:"mobile,omitempty"`
	Email        string             `bson:"email,omitempty"`
	SecretHash   string             `bson:"secret_hash"`
	ProfileImage string             `bson:"profile_image,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (m mongoIdentity) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Mobile:       m.Mobile,
		Email:        m.Email,
		SecretHash:   m.SecretHash,
		ProfileImage: m.ProfileImage,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// Create inserts the identity. The unique sparse indexes on mobile and email
// turn a racing duplicate into domain.ErrDuplicateIdentity.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoIdentity{
		ID:           primitive.NewObjectID(),
		Name:         identity.Name,
		Mobile:       identity.Mobile,
		Email:        identity.Email,
		SecretHash:   identity.SecretHash,
		ProfileImage: identity.ProfileImage,
		CreatedAt:    identity.CreatedAt.UTC(),
		UpdatedAt:    identity.UpdatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindBySignInKey(ctx context.Context, key string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": key},
		bson.M{"mobile": key},
	}})
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoIdentity
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique sign-in key indexes.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	unique := options.Index().SetUnique(true).SetSparse(true)
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "mobile", Value: 1}}, Options: unique},
	})
	return err
}
