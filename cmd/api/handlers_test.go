package main

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/auth"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/chats"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/data"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/metrics"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/middleware"
	v1 "github.com/PaulBabatuyi/chatStore-gRPC/proto/chat/v1"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const bufSize = 1024 * 1024

// memChats is an in-memory chats.Store.
type memChats struct {
	mu   sync.Mutex
	docs map[string]*data.Chat
	err  error
}

func newMemChats() *memChats { return &memChats{docs: map[string]*data.Chat{}} }

func (m *memChats) Get(ctx context.Context, id string) (*data.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.docs[id]; ok {
		return c.Clone(), nil
	}
	return nil, nil
}

func (m *memChats) ListByUser(ctx context.Context, userID string) ([]*data.Chat, error) {
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
	return out, nil
}

func (m *memChats) Upsert(ctx context.Context, chat *data.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.docs[chat.ID] = chat.Clone()
	return nil
}

func (m *memChats) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.docs, id)
	return nil
}

func (m *memChats) DeleteBatch(ctx context.Context, userID string, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, id := range ids {
		if c, ok := m.docs[id]; ok && c.UserID == userID {
			delete(m.docs, id)
			n++
		}
	}
	return n, nil
}

func (m *memChats) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *memChats) fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// fakeUsers is a static auth.UserDirectory.
type fakeUsers map[string]*auth.UserRecord

func (f fakeUsers) LookupByEmail(ctx context.Context, email string) (*auth.UserRecord, error) {
	return f[email], nil
}

var testUsers = fakeUsers{
	"alice@example.com": {ID: "u1", Email: "alice@example.com", Password: auth.Digest("secret-pass", "salt-a"), Salt: "salt-a"},
	"bob@example.com":   {ID: "u2", Email: "bob@example.com", Password: auth.Digest("hunter22", "salt-b"), Salt: "salt-b"},
}

type harness struct {
	client v1.ChatServiceClient
	store  *memChats
}

// startServer serves the full interceptor chain over bufconn.
func startServer(t *testing.T, store chats.Store, users auth.UserDirectory, rpm, burst int) v1.ChatServiceClient {
	t.Helper()

	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	limiter := middleware.NewLimiterStore(rpm, burst, time.Minute)
	t.Cleanup(limiter.Stop)

	lis := bufconn.Listen(bufSize)
	s := grpc.NewServer(unaryChain(metrics.New(), limiter, jwtMgr, zap.NewNop()))
	srv := newServer(chats.NewService(store, nil, nil), auth.NewAuthenticator(users), jwtMgr, metrics.New(), nil,
		func(string) (string, bool) { return "", false })
	registerService(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return v1.NewChatServiceClient(conn)
}

func newHarness(t *testing.T) *harness {
	store := newMemChats()
	return &harness{client: startServer(t, store, testUsers, 600, 10), store: store}
}

func login(t *testing.T, c v1.ChatServiceClient, email, password string) context.Context {
	t.Helper()
	resp, err := c.Login(context.Background(), mustStruct(t, map[string]any{"email": email, "password": password}))
	require.NoError(t, err)
	token := resp.GetFields()["token"].GetStringValue()
	require.NotEmpty(t, token)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, status.Code(err), err.Error())
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.Login(context.Background(), mustStruct(t, map[string]any{
		"email": "  Alice@Example.com ", "password": "secret-pass",
	}))
	require.NoError(t, err)
	f := resp.GetFields()
	require.Equal(t, "u1", f["userId"].GetStringValue())
	require.Equal(t, "alice@example.com", f["email"].GetStringValue())
	_, err = chats.ParseTime(f["expiresAt"].GetStringValue())
	require.NoError(t, err)

	for _, creds := range []map[string]any{
		{"email": "alice@example.com", "password": "wrong-pass"},
		{"email": "nobody@example.com", "password": "secret-pass"},
		{"email": "not-an-email", "password": "secret-pass"},
		{"email": "alice@example.com", "password": "short"},
	} {
		_, err := h.client.Login(context.Background(), mustStruct(t, creds))
		requireCode(t, err, codes.Unauthenticated)
		require.Equal(t, "invalid credentials", status.Convert(err).Message())
	}
}

func TestLoginRateLimited(t *testing.T) {
	client := startServer(t, newMemChats(), testUsers, 1, 1)
	req := mustStruct(t, map[string]any{"email": "alice@example.com", "password": "wrong-pass"})

	_, err := client.Login(context.Background(), req)
	requireCode(t, err, codes.Unauthenticated)
	_, err = client.Login(context.Background(), req)
	requireCode(t, err, codes.ResourceExhausted)
}

func TestInvalidTokenRejected(t *testing.T) {
	h := newHarness(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer not-a-token")

	_, err := h.client.GetChats(ctx, mustStruct(t, map[string]any{"userId": "u1"}))
	requireCode(t, err, codes.Unauthenticated)
}

func TestSaveAndGetChat(t *testing.T) {
	h := newHarness(t)
	alice := login(t, h.client, "alice@example.com", "secret-pass")

	_, err := h.client.SaveChat(alice, mustStruct(t, map[string]any{
		"id":        "c1",
		"createdAt": "2024-01-02T03:04:05.000Z",
		"title":     "hello",
		"messages":  []any{map[string]any{"role": "user", "content": "hi"}},
	}))
	require.NoError(t, err)

	got, err := h.client.GetChat(alice, mustStruct(t, map[string]any{"id": "c1", "userId": "u1"}))
	require.NoError(t, err)
	f := got.GetFields()
	require.Equal(t, "c1", f["id"].GetStringValue())
	require.Equal(t, "u1", f["userId"].GetStringValue())
	require.Equal(t, "2024-01-02T03:04:05.000Z", f["createdAt"].GetStringValue())
	require.Equal(t, "hello", f["title"].GetStringValue())
	require.Len(t, f["messages"].GetListValue().GetValues(), 1)
	require.NotContains(t, f, "sharePath")

	list, err := h.client.GetChats(alice, mustStruct(t, map[string]any{"userId": "u1"}))
	require.NoError(t, err)
	require.Len(t, list.GetValues(), 1)

	missing, err := h.client.GetChat(alice, mustStruct(t, map[string]any{"id": "nope", "userId": "u1"}))
	require.NoError(t, err)
	require.Empty(t, missing.GetFields())
}

func TestSaveChatWithoutSessionIsNoop(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.SaveChat(context.Background(), mustStruct(t, map[string]any{"id": "c1", "title": "x"}))
	require.NoError(t, err)

	// a payload that would not parse is still ignored
	_, err = h.client.SaveChat(context.Background(), mustStruct(t, map[string]any{"id": "c1", "createdAt": 12}))
	require.NoError(t, err)
	require.Zero(t, h.store.count())
}

func TestPublicMethodsIgnoreExpiredToken(t *testing.T) {
	h := newHarness(t)
	alice := login(t, h.client, "alice@example.com", "secret-pass")

	_, err := h.client.SaveChat(alice, mustStruct(t, map[string]any{"id": "c1", "title": "t"}))
	require.NoError(t, err)
	_, err = h.client.ShareChat(alice, wrapperspb.String("c1"))
	require.NoError(t, err)

	token, _, err := auth.NewJWTManager("test-secret", -time.Hour).GenerateToken("u1", "alice@example.com")
	require.NoError(t, err)
	expired := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)

	resp, err := h.client.Login(expired, mustStruct(t, map[string]any{"email": "alice@example.com", "password": "secret-pass"}))
	require.NoError(t, err)
	require.NotEmpty(t, resp.GetFields()["token"].GetStringValue())

	shared, err := h.client.GetSharedChat(expired, wrapperspb.String("c1"))
	require.NoError(t, err)
	require.Equal(t, "/share/c1", shared.GetFields()["sharePath"].GetStringValue())

	_, err = h.client.RefreshHistory(expired, wrapperspb.String("/"))
	require.NoError(t, err)
	_, err = h.client.GetMissingKeys(expired, &emptypb.Empty{})
	require.NoError(t, err)

	_, err = h.client.GetChats(expired, mustStruct(t, map[string]any{"userId": "u1"}))
	requireCode(t, err, codes.Unauthenticated)
}

func TestSaveChatRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	alice := login(t, h.client, "alice@example.com", "secret-pass")

	_, err := h.client.SaveChat(alice, mustStruct(t, map[string]any{"title": "no id"}))
	requireCode(t, err, codes.InvalidArgument)

	_, err = h.client.SaveChat(alice, mustStruct(t, map[string]any{"id": "c1", "createdAt": 12}))
	requireCode(t, err, codes.InvalidArgument)

	_, err = h.client.SaveChat(alice, mustStruct(t, map[string]any{"id": "c1", "userId": "u2"}))
	requireCode(t, err, codes.PermissionDenied)
}

func TestCrossUserAccess(t *testing.T) {
	h := newHarness(t)
	alice := login(t, h.client, "alice@example.com", "secret-pass")
	bob := login(t, h.client, "bob@example.com", "hunter22")

	_, err := h.client.SaveChat(alice, mustStruct(t, map[string]any{"id": "c1"}))
	require.NoError(t, err)

	_, err = h.client.GetChats(bob, mustStruct(t, map[string]any{"userId": "u1"}))
	requireCode(t, err, codes.PermissionDenied)
	require.Equal(t, "Unauthorized", status.Convert(err).Message())

	_, err = h.client.GetChat(bob, mustStruct(t, map[string]any{"id": "c1", "userId": "u1"}))
	requireCode(t, err, codes.PermissionDenied)

	// bob asking for alice's chat under his own id sees nothing
	got, err := h.client.GetChat(bob, mustStruct(t, map[string]any{"id": "c1", "userId": "u2"}))
	require.NoError(t, err)
	require.Empty(t, got.GetFields())

	_, err = h.client.ShareChat(bob, wrapperspb.String("c1"))
	requireCode(t, err, codes.PermissionDenied)

	_, err = h.client.RemoveChat(bob, mustStruct(t, map[string]any{"id": "c1", "path": "/chat/c1"}))
	requireCode(t, err, codes.PermissionDenied)
	require.Equal(t, 1, h.store.count())

	_, err = h.client.GetChats(context.Background(), mustStruct(t, map[string]any{"userId": "u1"}))
	requireCode(t, err, codes.Unauthenticated)
}

func TestGetChatsEmptyUserID(t *testing.T) {
	h := newHarness(t)

	list, err := h.client.GetChats(context.Background(), mustStruct(t, map[string]any{}))
	require.NoError(t, err)
	require.Empty(t, list.GetValues())
}

func TestShareChat(t *testing.T) {
	h := newHarness(t)
	alice := login(t, h.client, "alice@example.com", "secret-pass")

	_, err := h.client.SaveChat(alice, mustStruct(t, map[string]any{"id": "c1", "title": "t"}))
	require.NoError(t, err)

	before, err := h.client.GetSharedChat(context.Background(), wrapperspb.String("c1"))
	require.NoError(t, err)
	require.Empty(t, before.GetFields())

	shared, err := h.client.ShareChat(alice, wrapperspb.String("c1"))
	require.NoError(t, err)
	require.Equal(t, "/share/c1", shared.GetFields()["sharePath"].GetStringValue())

	after, err := h.client.GetSharedChat(context.Background(), wrapperspb.String("c1"))
	require.NoError(t, err)
	require.Equal(t, "t", after.GetFields()["title"].GetStringValue())
	_, err = chats.ParseTime(after.GetFields()["createdAt"].GetStringValue())
	require.NoError(t, err)
}

func TestRemoveAndClearChats(t *testing.T) {
	h := newHarness(t)
	alice := login(t, h.client, "alice@example.com", "secret-pass")

	empty, err := h.client.ClearChats(alice, &emptypb.Empty{})
	require.NoError(t, err)
	require.Equal(t, "/", empty.GetFields()["redirect"].GetStringValue())
	require.NotContains(t, empty.GetFields(), "revalidate")

	for _, id := range []string{"c1", "c2", "c3"} {
		_, err := h.client.SaveChat(alice, mustStruct(t, map[string]any{"id": id}))
		require.NoError(t, err)
	}

	sig, err := h.client.RemoveChat(alice, mustStruct(t, map[string]any{"id": "c1", "path": "/chat/c1"}))
	require.NoError(t, err)
	paths := sig.GetFields()["revalidate"].GetListValue().AsSlice()
	require.Equal(t, []any{"/", "/chat/c1"}, paths)
	require.Equal(t, 2, h.store.count())

	cleared, err := h.client.ClearChats(alice, &emptypb.Empty{})
	require.NoError(t, err)
	require.Equal(t, []any{"/"}, cleared.GetFields()["revalidate"].GetListValue().AsSlice())
	require.Equal(t, "/", cleared.GetFields()["redirect"].GetStringValue())
	require.Zero(t, h.store.count())

	_, err = h.client.ClearChats(context.Background(), &emptypb.Empty{})
	requireCode(t, err, codes.Unauthenticated)
}

func TestRefreshHistoryAndMissingKeys(t *testing.T) {
	h := newHarness(t)

	sig, err := h.client.RefreshHistory(context.Background(), wrapperspb.String("/chat/c9"))
	require.NoError(t, err)
	require.Equal(t, "/chat/c9", sig.GetFields()["redirect"].GetStringValue())

	keys, err := h.client.GetMissingKeys(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	require.Equal(t, []any{"OPENAI_API_KEY"}, keys.AsSlice())
}

func TestStorageFailureIsInternal(t *testing.T) {
	store := newMemChats()
	client := startServer(t, store, testUsers, 600, 10)
	alice := login(t, client, "alice@example.com", "secret-pass")
	store.fail(errors.New("connection reset"))

	_, err := client.GetChat(alice, mustStruct(t, map[string]any{"id": "c1", "userId": "u1"}))
	requireCode(t, err, codes.Internal)
	require.Equal(t, "failed to get chat", status.Convert(err).Message())
}

func TestRequestIDHeader(t *testing.T) {
	h := newHarness(t)

	var hdr metadata.MD
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", "req-42")
	_, err := h.client.GetMissingKeys(ctx, &emptypb.Empty{}, grpc.Header(&hdr))
	require.NoError(t, err)
	require.Equal(t, []string{"req-42"}, hdr.Get("x-request-id"))

	_, err = h.client.GetMissingKeys(context.Background(), &emptypb.Empty{}, grpc.Header(&hdr))
	require.NoError(t, err)
	require.Len(t, hdr.Get("x-request-id"), 1)
	require.NotEmpty(t, hdr.Get("x-request-id")[0])
}
