package chats

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/data"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/views"
)

// memStore is an in-memory Store that records mutating calls.
type memStore struct {
	mu      sync.Mutex
	docs    map[string]*data.Chat
	err     error
	deletes int
	batches [][]string
}

func newMemStore(chats ...*data.Chat) *memStore {
	m := &memStore{docs: map[string]*data.Chat{}}
	for _, c := range chats {
		m.docs[c.ID] = c.Clone()
	}
	return m
}

func (m *memStore) Get(ctx context.Context, id string) (*data.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string) ([]*data.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []*data.Chat{}
	for _, c := range m.docs {
		if c.UserID == userID {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) Upsert(ctx context.Context, chat *data.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.docs[chat.ID] = chat.Clone()
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.deletes++
	delete(m.docs, id)
	return nil
}

func (m *memStore) DeleteBatch(ctx context.Context, userID string, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.batches = append(m.batches, append([]string(nil), ids...))
	var n int64
	for _, id := range ids {
		if c, ok := m.docs[id]; ok && c.UserID == userID {
			delete(m.docs, id)
			n++
		}
	}
	return n, nil
}

// recordingSignaler captures emitted signals.
type recordingSignaler struct {
	got []views.Signal
	err error
}

func (r *recordingSignaler) Emit(ctx context.Context, s views.Signal) error {
	r.got = append(r.got, s)
	return r.err
}

var errStorage = errors.New("storage down")
