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

	"github.com/cashback-api/cashback-system/internal/core/domain"
	"github.com/cashback-api/cashback-system/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// userDocument is the stored shape of a user. Optional attributes are
// pointers so an absent value round-trips as a missing field.
type userDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	FullName       *string            `bson:"full_name,omitempty"`
	Email          *string            `bson:"email,omitempty"`
	Disabled       *bool              `bson:"disabled,omitempty"`
	HashedPassword string             `bson:"hashed_password"`
	CreatedAt      int64              `bson:"created_at"`
}

func toUserDocument(u domain.UserInDB, createdAt time.Time) userDocument {
	return userDocument{
		Username:       u.Username,
		FullName:       u.FullName.Ptr(),
		Email:          u.Email.Ptr(),
		Disabled:       u.Disabled.Ptr(),
		HashedPassword: u.HashedPassword,
		CreatedAt:      createdAt.Unix(),
	}
}

func (d userDocument) toDomain() (domain.UserInDB, error) {
	u, err := domain.NewUser(
		d.Username,
		domain.FromPtr(d.FullName),
		domain.FromPtr(d.Email),
		domain.FromPtr(d.Disabled),
	)
	if err != nil {
		return domain.UserInDB{}, fmt.Errorf("decode user %s: %w", d.ID.Hex(), err)
	}
	stored, err := domain.NewUserInDB(u, d.HashedPassword)
	if err != nil {
		return domain.UserInDB{}, fmt.Errorf("decode user %s: %w", d.ID.Hex(), err)
	}
	return stored, nil
}

// Create inserts a new user. A taken username yields domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user domain.UserInDB) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toUserDocument(user, time.Now().UTC()))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByUsername returns domain.ErrUserNotFound when no user matches.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.UserInDB, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.UserInDB{}, domain.ErrUserNotFound
		}
		return domain.UserInDB{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain()
}

// EnsureIndexes creates the unique username index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
