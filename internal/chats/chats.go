// Package chats implements the session-gated chat operations: listing,
// reading, saving, sharing and deleting a user's conversations.
package chats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/auth"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/data"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/logger"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/normalize"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/views"
	"go.uber.org/zap"
)

// ErrUnauthorized is returned when there is no session or the session does
// not own the chat it is acting on.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidChat is returned by SaveChat for a chat without an id.
var ErrInvalidChat = errors.New("chat id is required")

// Store is the document capability set the service needs.
type Store interface {
	Get(ctx context.Context, id string) (*data.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]*data.Chat, error)
	Upsert(ctx context.Context, chat *data.Chat) error
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, userID string, ids []string) (int64, error)
}

// Chat is a stored chat as surfaced to callers: CreatedAt is rendered as an
// ISO-8601 string.
type Chat struct {
	ID        string
	UserID    string
	CreatedAt string
	SharePath string
	Content   map[string]any
}

// Service is the chat store gateway.
type Service struct {
	store   Store
	signals views.Signaler
	log     *zap.Logger
	now     func() time.Time
}

// NewService wires a Service. A nil signaler drops view signals and a nil
// logger discards logs.
func NewService(store Store, signals views.Signaler, log *zap.Logger) *Service {
	if signals == nil {
		signals = views.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, signals: signals, log: log, now: time.Now}
}

// GetChats returns every chat owned by userID. An empty userID yields an
// empty list; any other userID must match the session.
func (s *Service) GetChats(ctx context.Context, sess *auth.Session, userID string) ([]*Chat, error) {
	if userID == "" {
		return []*Chat{}, nil
	}
	if !owns(sess, userID) {
		return nil, ErrUnauthorized
	}

	stored, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chats: %w", err)
	}
	out := make([]*Chat, 0, len(stored))
	for _, c := range stored {
		out = append(out, toView(c))
	}
	return out, nil
}

// GetChat returns chat id if it exists and belongs to userID, which must be
// the session's user. A missing or foreign chat is (nil, nil).
func (s *Service) GetChat(ctx context.Context, sess *auth.Session, id, userID string) (*Chat, error) {
	if !owns(sess, userID) {
		return nil, ErrUnauthorized
	}

	stored, err := s.store.Get(ctx, normalize.ID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat: %w", err)
	}
	if stored == nil || stored.UserID != userID {
		return nil, nil
	}
	return toView(stored), nil
}

// GetSharedChat returns chat id without any session, but only once it has
// been shared.
func (s *Service) GetSharedChat(ctx context.Context, id string) (*Chat, error) {
	stored, err := s.store.Get(ctx, normalize.ID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shared chat: %w", err)
	}
	if stored == nil || stored.SharePath == "" {
		return nil, nil
	}
	return toView(stored), nil
}

// SaveChat creates or overwrites chat. Without a session it does nothing.
// An empty owner defaults to the session's user; a chat may not be saved
// for, or over, another user. Content keys naming document fields are
// dropped.
func (s *Service) SaveChat(ctx context.Context, sess *auth.Session, chat *data.Chat) error {
	if sess == nil || sess.UserID == "" {
		return nil
	}
	if chat == nil || normalize.ID(chat.ID) == "" {
		return ErrInvalidChat
	}

	chat = chat.Clone()
	chat.ID = normalize.ID(chat.ID)
	for k := range chat.Content {
		if IsReserved(k) {
			delete(chat.Content, k)
		}
	}
	if chat.UserID == "" {
		chat.UserID = sess.UserID
	}
	if chat.UserID != sess.UserID {
		return ErrUnauthorized
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = s.now().UTC()
	}

	existing, err := s.store.Get(ctx, chat.ID)
	if err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}
	if existing != nil && existing.UserID != sess.UserID {
		return ErrUnauthorized
	}

	if err := s.store.Upsert(ctx, chat); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}
	return nil
}

// ShareChat publishes chat id at /share/{id} and returns the updated chat.
// Sharing an already shared chat leaves it unchanged.
func (s *Service) ShareChat(ctx context.Context, sess *auth.Session, id string) (*Chat, error) {
	if sess == nil || sess.UserID == "" {
		return nil, ErrUnauthorized
	}

	stored, err := s.store.Get(ctx, normalize.ID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to share chat: %w", err)
	}
	if stored == nil || stored.UserID != sess.UserID {
		return nil, ErrUnauthorized
	}

	shared := stored.Clone()
	shared.SharePath = SharePath(stored.ID)
	if err := s.store.Upsert(ctx, shared); err != nil {
		return nil, fmt.Errorf("failed to share chat: %w", err)
	}
	return toView(shared), nil
}

// RemoveChat deletes chat id and marks the chat list and path stale.
func (s *Service) RemoveChat(ctx context.Context, sess *auth.Session, id, path string) (views.Signal, error) {
	if sess == nil || sess.UserID == "" {
		return views.Signal{}, ErrUnauthorized
	}

	stored, err := s.store.Get(ctx, normalize.ID(id))
	if err != nil {
		return views.Signal{}, fmt.Errorf("failed to remove chat: %w", err)
	}
	if stored == nil || stored.UserID != sess.UserID {
		return views.Signal{}, ErrUnauthorized
	}

	if err := s.store.Delete(ctx, stored.ID); err != nil {
		return views.Signal{}, fmt.Errorf("failed to remove chat: %w", err)
	}

	sig := views.Revalidate(views.Root, path)
	s.emit(ctx, sess, sig)
	return sig, nil
}

// ClearChats deletes every chat of the session's user in one batch and sends
// the UI back to the chat list. With nothing to delete it only redirects.
func (s *Service) ClearChats(ctx context.Context, sess *auth.Session) (views.Signal, error) {
	if sess == nil || sess.UserID == "" {
		return views.Signal{}, ErrUnauthorized
	}

	stored, err := s.store.ListByUser(ctx, sess.UserID)
	if err != nil {
		return views.Signal{}, fmt.Errorf("failed to clear chats: %w", err)
	}
	if len(stored) == 0 {
		return views.Redirect(views.Root), nil
	}

	ids := make([]string, 0, len(stored))
	for _, c := range stored {
		ids = append(ids, c.ID)
	}
	n, err := s.store.DeleteBatch(ctx, sess.UserID, ids)
	if err != nil {
		return views.Signal{}, fmt.Errorf("failed to clear chats: %w", err)
	}
	logger.WithContext(ctx, s.log).Info("cleared chats", zap.Int64("deleted", n))

	sig := views.Revalidate(views.Root)
	sig.Redirect = views.Root
	s.emit(ctx, sess, sig)
	return sig, nil
}

// RefreshHistory asks the UI to navigate to path.
func (s *Service) RefreshHistory(path string) views.Signal {
	return views.Redirect(path)
}

// emit forwards sig to the signaler. Delivery failures are only logged.
func (s *Service) emit(ctx context.Context, sess *auth.Session, sig views.Signal) {
	sig.UserID = sess.UserID
	if err := s.signals.Emit(ctx, sig); err != nil {
		logger.WithContext(ctx, s.log).Warn("view signal not delivered", zap.Error(err))
	}
}

func owns(sess *auth.Session, userID string) bool {
	return sess != nil && sess.UserID != "" && sess.UserID == userID
}
