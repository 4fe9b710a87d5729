package main

import (
	"context"
	"strings"
	"time"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/auth"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/logger"
	v1 "github.com/PaulBabatuyi/chatStore-gRPC/proto/chat/v1"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// context key type for storing auth claims in context
type authContextKey struct{}

// getClaimsFromContext extracts auth claims from the context, if present.
func getClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(authContextKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// sessionFromContext returns the caller's session, or nil when the request
// carried no token.
func sessionFromContext(ctx context.Context) *auth.Session {
	if c, ok := getClaimsFromContext(ctx); ok {
		return c.Session()
	}
	return nil
}

// authUnaryInterceptor attaches the session of a bearer token to the context.
// Public methods never look at the token. Elsewhere, requests without a token
// pass through anonymously and the chat operations decide what an anonymous
// caller may do; a token that fails verification is rejected.
func authUnaryInterceptor(j *auth.JWTManager) grpc.UnaryServerInterceptor {
	// methods that never need a session
	public := map[string]bool{
		v1.ChatService_Login_FullMethodName:          true,
		v1.ChatService_GetSharedChat_FullMethodName:  true,
		v1.ChatService_RefreshHistory_FullMethodName: true,
		v1.ChatService_GetMissingKeys_FullMethodName: true,
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if public[info.FullMethod] {
			return handler(ctx, req)
		}

		// extract Authorization header from metadata
		md, _ := metadata.FromIncomingContext(ctx)
		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return handler(ctx, req)
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer"))
		if token == "" {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token")
		}

		claims, err := j.VerifyToken(token)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "unauthenticated: %v", err)
		}

		ctx = context.WithValue(ctx, authContextKey{}, claims)
		ctx = logger.WithUserID(ctx, claims.UserID)
		return handler(ctx, req)
	}
}

// requestIDUnaryInterceptor reuses the caller's x-request-id or assigns one,
// and echoes it back in the response header.
func requestIDUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		id := ""
		if ids := md.Get("x-request-id"); len(ids) > 0 {
			id = ids[0]
		}
		if id == "" {
			id = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs("x-request-id", id))
		return handler(logger.WithRequestID(ctx, id), req)
	}
}

// loggingUnaryInterceptor logs one line per RPC.
func loggingUnaryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		}
		l := logger.WithContext(ctx, log)
		if status.Code(err) == codes.Internal {
			l.Error("rpc failed", fields...)
		} else {
			l.Info("rpc", fields...)
		}
		return resp, err
	}
}
