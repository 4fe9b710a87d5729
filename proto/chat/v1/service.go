// Package v1 defines the chat.v1.ChatService gRPC contract. Requests and
// responses are protobuf well-known types (Struct, ListValue, StringValue,
// Empty), so the service is described by hand instead of generated.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "chat.v1.ChatService"

const (
	ChatService_Login_FullMethodName          = "/chat.v1.ChatService/Login"
	ChatService_GetChats_FullMethodName       = "/chat.v1.ChatService/GetChats"
	ChatService_GetChat_FullMethodName        = "/chat.v1.ChatService/GetChat"
	ChatService_GetSharedChat_FullMethodName  = "/chat.v1.ChatService/GetSharedChat"
	ChatService_SaveChat_FullMethodName       = "/chat.v1.ChatService/SaveChat"
	ChatService_ShareChat_FullMethodName      = "/chat.v1.ChatService/ShareChat"
	ChatService_RemoveChat_FullMethodName     = "/chat.v1.ChatService/RemoveChat"
	ChatService_ClearChats_FullMethodName     = "/chat.v1.ChatService/ClearChats"
	ChatService_RefreshHistory_FullMethodName = "/chat.v1.ChatService/RefreshHistory"
	ChatService_GetMissingKeys_FullMethodName = "/chat.v1.ChatService/GetMissingKeys"
)

// ChatServiceServer is the server API for ChatService.
type ChatServiceServer interface {
	// Login checks an email/password pair and returns a session token.
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetChats(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	GetChat(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSharedChat(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	SaveChat(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	ShareChat(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	RemoveChat(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearChats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	RefreshHistory(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetMissingKeys(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// UnimplementedChatServiceServer must be embedded by implementations so new
// methods can be added without breaking them.
type UnimplementedChatServiceServer struct{}

func (UnimplementedChatServiceServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedChatServiceServer) GetChats(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetChats not implemented")
}
func (UnimplementedChatServiceServer) GetChat(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetChat not implemented")
}
func (UnimplementedChatServiceServer) GetSharedChat(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSharedChat not implemented")
}
func (UnimplementedChatServiceServer) SaveChat(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveChat not implemented")
}
func (UnimplementedChatServiceServer) ShareChat(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ShareChat not implemented")
}
func (UnimplementedChatServiceServer) RemoveChat(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveChat not implemented")
}
func (UnimplementedChatServiceServer) ClearChats(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearChats not implemented")
}
func (UnimplementedChatServiceServer) RefreshHistory(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshHistory not implemented")
}
func (UnimplementedChatServiceServer) GetMissingKeys(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMissingKeys not implemented")
}

// unary builds the MethodDesc for one RPC. newReq allocates the request
// message the payload is decoded into.
func unary[Req proto.Message, Resp proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(ChatServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodDesc {
	name := fullMethod[len("/"+ServiceName+"/"):]
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ChatServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ChatServiceServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func newStruct() *structpb.Struct { return new(structpb.Struct) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newEmpty() *emptypb.Empty { return new(emptypb.Empty) }

// ChatService_ServiceDesc is the grpc.ServiceDesc for ChatService.
var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ChatService_Login_FullMethodName, newStruct, ChatServiceServer.Login),
		unary(ChatService_GetChats_FullMethodName, newStruct, ChatServiceServer.GetChats),
		unary(ChatService_GetChat_FullMethodName, newStruct, ChatServiceServer.GetChat),
		unary(ChatService_GetSharedChat_FullMethodName, newString, ChatServiceServer.GetSharedChat),
		unary(ChatService_SaveChat_FullMethodName, newStruct, ChatServiceServer.SaveChat),
		unary(ChatService_ShareChat_FullMethodName, newString, ChatServiceServer.ShareChat),
		unary(ChatService_RemoveChat_FullMethodName, newStruct, ChatServiceServer.RemoveChat),
		unary(ChatService_ClearChats_FullMethodName, newEmpty, ChatServiceServer.ClearChats),
		unary(ChatService_RefreshHistory_FullMethodName, newString, ChatServiceServer.RefreshHistory),
		unary(ChatService_GetMissingKeys_FullMethodName, newEmpty, ChatServiceServer.GetMissingKeys),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chat/v1/chat.proto",
}

// RegisterChatServiceServer registers srv on s.
func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

// ChatServiceClient is the client API for ChatService.
type ChatServiceClient interface {
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetChats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetChat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSharedChat(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	SaveChat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ShareChat(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	RemoveChat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ClearChats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	RefreshHistory(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetMissingKeys(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewChatServiceClient returns a client bound to cc.
func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ChatService_Login_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetChats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, ChatService_GetChats_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetChat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ChatService_GetChat_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetSharedChat(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ChatService_GetSharedChat_FullMethodName, in, opts)
}

func (c *chatServiceClient) SaveChat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, ChatService_SaveChat_FullMethodName, in, opts)
}

func (c *chatServiceClient) ShareChat(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ChatService_ShareChat_FullMethodName, in, opts)
}

func (c *chatServiceClient) RemoveChat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ChatService_RemoveChat_FullMethodName, in, opts)
}

func (c *chatServiceClient) ClearChats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ChatService_ClearChats_FullMethodName, in, opts)
}

func (c *chatServiceClient) RefreshHistory(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ChatService_RefreshHistory_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetMissingKeys(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, ChatService_GetMissingKeys_FullMethodName, in, opts)
}
