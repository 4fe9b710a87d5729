package main

import (
	"context"
	"errors"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/auth"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/chats"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/config"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/logger"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/views"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Login checks the credentials and returns a session token.
func (s *Server) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	identity, err := s.authn.Authorize(ctx, fields["email"].GetStringValue(), fields["password"].GetStringValue())
	if err != nil {
		logger.WithContext(ctx, s.log).Error("user lookup failed", zap.Error(err))
		return nil, status.Errorf(codes.Internal, "failed to authenticate")
	}
	if identity == nil {
		return nil, status.Errorf(codes.Unauthenticated, "invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(identity.ID, identity.Email)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to generate token: %v", err)
	}

	return structpb.NewStruct(map[string]any{
		"token":     token,
		"userId":    identity.ID,
		"email":     identity.Email,
		"expiresAt": chats.FormatTime(expiresAt),
	})
}

// GetChats lists the caller's chats, newest first.
func (s *Server) GetChats(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	sess := sessionFromContext(ctx)
	list, err := s.chats.GetChats(ctx, sess, req.GetFields()["userId"].GetStringValue())
	if err != nil {
		return nil, s.rpcError(ctx, "get chats", sess, err)
	}

	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(list))}
	for _, c := range list {
		st, err := chatToStruct(c)
		if err != nil {
			return nil, s.rpcError(ctx, "get chats", sess, err)
		}
		out.Values = append(out.Values, structpb.NewStructValue(st))
	}
	return out, nil
}

// GetChat returns one of the caller's chats, or an empty struct.
func (s *Server) GetChat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess := sessionFromContext(ctx)
	fields := req.GetFields()
	c, err := s.chats.GetChat(ctx, sess, fields["id"].GetStringValue(), fields["userId"].GetStringValue())
	if err != nil {
		return nil, s.rpcError(ctx, "get chat", sess, err)
	}
	st, err := chatToStruct(c)
	if err != nil {
		return nil, s.rpcError(ctx, "get chat", sess, err)
	}
	return st, nil
}

// GetSharedChat returns a shared chat to anyone.
func (s *Server) GetSharedChat(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	c, err := s.chats.GetSharedChat(ctx, req.GetValue())
	if err != nil {
		return nil, s.rpcError(ctx, "get shared chat", nil, err)
	}
	st, err := chatToStruct(c)
	if err != nil {
		return nil, s.rpcError(ctx, "get shared chat", nil, err)
	}
	return st, nil
}

// SaveChat stores the chat for the caller. Anonymous calls are accepted and
// ignored.
func (s *Server) SaveChat(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	sess := sessionFromContext(ctx)
	if sess == nil {
		return &emptypb.Empty{}, nil
	}
	chat, err := structToChat(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid chat: %v", err)
	}
	if err := s.chats.SaveChat(ctx, sess, chat); err != nil {
		return nil, s.rpcError(ctx, "save chat", sess, err)
	}
	return &emptypb.Empty{}, nil
}

// ShareChat makes one of the caller's chats public.
func (s *Server) ShareChat(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	sess := sessionFromContext(ctx)
	c, err := s.chats.ShareChat(ctx, sess, req.GetValue())
	if err != nil {
		return nil, s.rpcError(ctx, "share chat", sess, err)
	}
	st, err := chatToStruct(c)
	if err != nil {
		return nil, s.rpcError(ctx, "share chat", sess, err)
	}
	return st, nil
}

// RemoveChat deletes one of the caller's chats.
func (s *Server) RemoveChat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess := sessionFromContext(ctx)
	fields := req.GetFields()
	sig, err := s.chats.RemoveChat(ctx, sess, fields["id"].GetStringValue(), fields["path"].GetStringValue())
	if err != nil {
		return nil, s.rpcError(ctx, "remove chat", sess, err)
	}
	return s.signal(sig)
}

// ClearChats deletes all of the caller's chats.
func (s *Server) ClearChats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	sess := sessionFromContext(ctx)
	sig, err := s.chats.ClearChats(ctx, sess)
	if err != nil {
		return nil, s.rpcError(ctx, "clear chats", sess, err)
	}
	return s.signal(sig)
}

// RefreshHistory tells the client to navigate to the given path.
func (s *Server) RefreshHistory(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return s.signal(s.chats.RefreshHistory(req.GetValue()))
}

// GetMissingKeys lists the required environment keys that are not set.
func (s *Server) GetMissingKeys(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	missing := config.MissingKeys(s.lookupEnv)
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(missing))}
	for _, k := range missing {
		out.Values = append(out.Values, structpb.NewStringValue(k))
	}
	return out, nil
}

func (s *Server) signal(sig views.Signal) (*structpb.Struct, error) {
	if s.metrics != nil {
		if len(sig.Revalidate) > 0 {
			s.metrics.ObserveSignal("revalidate")
		}
		if sig.Redirect != "" {
			s.metrics.ObserveSignal("redirect")
		}
	}
	st, err := signalToStruct(sig)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode signal")
	}
	return st, nil
}

// rpcError maps a gateway error to a status. Storage failures are logged
// here and reach the client without detail.
func (s *Server) rpcError(ctx context.Context, op string, sess *auth.Session, err error) error {
	switch {
	case errors.Is(err, chats.ErrUnauthorized) && sess == nil:
		return status.Error(codes.Unauthenticated, "Unauthorized")
	case errors.Is(err, chats.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, "Unauthorized")
	case errors.Is(err, chats.ErrInvalidChat):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	logger.WithContext(ctx, s.log).Error(op+" failed", zap.Error(err))
	return status.Errorf(codes.Internal, "failed to %s", op)
}
