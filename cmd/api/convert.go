package main

import (
	"fmt"
	"time"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/chats"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/data"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/views"
	"go.mongodb.org/mongo-driver/v2/bson"
	"google.golang.org/protobuf/types/known/structpb"
)

// chatToStruct renders a chat for the wire. A nil chat becomes an empty
// Struct, which clients read as "no such chat".
func chatToStruct(c *chats.Chat) (*structpb.Struct, error) {
	if c == nil {
		return &structpb.Struct{}, nil
	}
	m := make(map[string]any, len(c.Content)+4)
	for k, v := range c.Content {
		if !chats.IsReserved(k) {
			m[k] = plain(v)
		}
	}
	m["id"] = c.ID
	m["userId"] = c.UserID
	m["createdAt"] = c.CreatedAt
	if c.SharePath != "" {
		m["sharePath"] = c.SharePath
	}
	return structpb.NewStruct(m)
}

// structToChat reads a chat sent by a client. createdAt, when present, must
// be an ISO-8601 string.
func structToChat(s *structpb.Struct) (*data.Chat, error) {
	m := s.AsMap()
	chat := &data.Chat{Content: map[string]any{}}

	var ok bool
	if v, present := m["id"]; present {
		if chat.ID, ok = v.(string); !ok {
			return nil, fmt.Errorf("id must be a string")
		}
	}
	if v, present := m["userId"]; present && v != nil {
		if chat.UserID, ok = v.(string); !ok {
			return nil, fmt.Errorf("userId must be a string")
		}
	}
	if v, present := m["createdAt"]; present && v != nil {
		raw, isString := v.(string)
		if !isString {
			return nil, fmt.Errorf("createdAt must be an ISO-8601 string")
		}
		t, err := chats.ParseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("createdAt: %w", err)
		}
		chat.CreatedAt = t
	}
	if v, present := m["sharePath"]; present && v != nil {
		if chat.SharePath, ok = v.(string); !ok {
			return nil, fmt.Errorf("sharePath must be a string")
		}
	}

	for k, v := range m {
		if !chats.IsReserved(k) {
			chat.Content[k] = v
		}
	}
	return chat, nil
}

func signalToStruct(sig views.Signal) (*structpb.Struct, error) {
	m := map[string]any{}
	if len(sig.Revalidate) > 0 {
		paths := make([]any, len(sig.Revalidate))
		for i, p := range sig.Revalidate {
			paths[i] = p
		}
		m["revalidate"] = paths
	}
	if sig.Redirect != "" {
		m["redirect"] = sig.Redirect
	}
	return structpb.NewStruct(m)
}

// plain converts values decoded from BSON into the JSON-like shapes
// structpb accepts.
func plain(v any) any {
	switch x := v.(type) {
	case bson.M:
		return plainMap(x)
	case map[string]any:
		return plainMap(x)
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.A:
		return plainSlice(x)
	case []any:
		return plainSlice(x)
	case time.Time:
		return chats.FormatTime(x)
	case bson.DateTime:
		return chats.FormatTime(x.Time())
	case bson.ObjectID:
		return x.Hex()
	case nil, string, bool, int, int32, int64, uint32, uint64, float32, float64:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func plainMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = plain(v)
	}
	return out
}

func plainSlice(in []any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = plain(v)
	}
	return out
}
