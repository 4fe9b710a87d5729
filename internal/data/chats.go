package data

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// codeIllegalOperation is returned by standalone servers for transactions.
const codeIllegalOperation = 20

// ChatsStore provides chat document operations.
type ChatsStore struct {
	coll *mongo.Collection
}

// NewChatsStore returns a ChatsStore using the given collection.
func NewChatsStore(coll *mongo.Collection) *ChatsStore {
	return &ChatsStore{coll: coll}
}

// Get returns the chat stored under id, or nil if there is none.
func (s *ChatsStore) Get(ctx context.Context, id string) (*Chat, error) {
	var chat Chat
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat %s: %w", id, err)
	}
	return &chat, nil
}

// ListByUser returns every chat owned by userID, newest first.
func (s *ChatsStore) ListByUser(ctx context.Context, userID string) ([]*Chat, error) {
	// newest first, served by the {userId, createdAt} index
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list chats for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	chats := []*Chat{}
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("decode chats for %s: %w", userID, err)
	}
	return chats, nil
}

// Upsert writes chat under its id, replacing any existing document.
func (s *ChatsStore) Upsert(ctx context.Context, chat *Chat) error {
	// Upsert creates the document if _id is new, otherwise replaces it whole
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": chat.ID},
		chat,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert chat %s: %w", chat.ID, err)
	}
	return nil
}

// Delete removes the chat stored under id. Deleting a missing chat is not an
// error.
func (s *ChatsStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete chat %s: %w", id, err)
	}
	return nil
}

// DeleteBatch removes the chats in ids that belong to userID as a single
// transaction and returns how many were deleted. Documents owned by anyone
// else are never touched, even if their id is listed.
func (s *ChatsStore) DeleteBatch(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// Only ids owned by userID match
	filter := bson.M{"_id": bson.M{"$in": ids}, "userId": userID}

	sess, err := s.coll.Database().Client().StartSession()
	if err != nil {
		return 0, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	res, err := sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return s.coll.DeleteMany(ctx, filter)
	})
	if isTransactionUnsupported(err) {
		// standalone server: a single DeleteMany is the closest we can get
		res, err = s.coll.DeleteMany(ctx, filter)
	}
	if err != nil {
		return 0, fmt.Errorf("delete chats for %s: %w", userID, err)
	}
	return res.(*mongo.DeleteResult).DeletedCount, nil
}

func isTransactionUnsupported(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(codeIllegalOperation)
}
