// Package data provides the MongoDB-backed chat and user stores.
package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/auth"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/normalize"
	"github.com/google/uuid"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrUserExists is returned by CreateUser when the email is taken.
var ErrUserExists = errors.New("user already exists")

// UsersStore performs user DB operations.
type UsersStore struct {
	// coll is the "users" collection, set by NewUsersStore
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll} // Store reference to MongoDB collection
}

// CreateUser inserts a user whose password has already been digested with
// salt (see auth.Digest).
func (u *UsersStore) CreateUser(ctx context.Context, email, passwordDigest, salt string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.NewString(),       // Opaque id carried in session tokens
		Email:     normalize.Email(email), // Lookups always use the normalized form
		Password:  passwordDigest,         // Already digested by auth.Digest()
		Salt:      salt,
		CreatedAt: now,
		UpdatedAt: now, // Initially same as CreatedAt
	}

	if _, err := u.coll.InsertOne(ctx, user); err != nil {
		// unique index on email (see db.CreateIndexes)
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail finds a user by email; a missing user is (nil, nil).
func (u *UsersStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User

	// filter: {email: "user@x.com"}
	err := u.coll.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Unknown email is not an error for the caller
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// LookupByEmail implements auth.UserDirectory.
func (u *UsersStore) LookupByEmail(ctx context.Context, email string) (*auth.UserRecord, error) {
	user, err := u.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, err
	}

	// Only the fields the credential check needs
	return &auth.UserRecord{
		ID:       user.ID,
		Email:    user.Email,
		Password: user.Password,
		Salt:     user.Salt,
	}, nil
}

// UserExists checks if a user exists by email.
func (u *UsersStore) UserExists(ctx context.Context, email string) (bool, error) {
	// Count matches without decoding the document
	count, err := u.coll.CountDocuments(ctx, bson.M{"email": normalize.Email(email)})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
