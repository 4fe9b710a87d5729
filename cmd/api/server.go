package main

import (
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/auth"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/chats"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/metrics"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/middleware"
	v1 "github.com/PaulBabatuyi/chatStore-gRPC/proto/chat/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Server implements the chat service and contains references to the chat
// gateway and auth logic.
type Server struct {
	v1.UnimplementedChatServiceServer

	chats   *chats.Service
	authn   *auth.Authenticator
	tokens  *auth.JWTManager
	metrics *metrics.Metrics
	log     *zap.Logger

	// lookupEnv resolves the keys reported by GetMissingKeys
	lookupEnv func(string) (string, bool)
}

// newServer returns a ready-to-use Server. metrics may be nil.
func newServer(svc *chats.Service, authn *auth.Authenticator, tokens *auth.JWTManager, m *metrics.Metrics, log *zap.Logger, lookupEnv func(string) (string, bool)) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		chats:     svc,
		authn:     authn,
		tokens:    tokens,
		metrics:   m,
		log:       log,
		lookupEnv: lookupEnv,
	}
}

// registerService registers the ChatService on the given gRPC server.
func registerService(s *grpc.Server, srv *Server) {
	v1.RegisterChatServiceServer(s, srv)
}

// unaryChain returns the server's interceptors in order. Only Login is rate
// limited.
func unaryChain(m *metrics.Metrics, limiter *middleware.LimiterStore, j *auth.JWTManager, log *zap.Logger) grpc.ServerOption {
	limited := map[string]bool{
		v1.ChatService_Login_FullMethodName: true,
	}
	return grpc.ChainUnaryInterceptor(
		requestIDUnaryInterceptor(),
		m.UnaryInterceptor(),
		middleware.RateLimitUnaryInterceptor(limiter, limited),
		authUnaryInterceptor(j),
		loggingUnaryInterceptor(log),
	)
}
