package chats

import (
	"time"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/data"
)

// isoLayout matches JavaScript's Date.prototype.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t as a UTC ISO-8601 string with millisecond precision.
// The zero time renders as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

// ParseTime accepts the strings FormatTime produces as well as any RFC 3339
// timestamp. An empty string is the zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// fields the chat document owns; everything else is opaque content
var reservedFields = map[string]bool{
	"_id":       true,
	"id":        true,
	"userId":    true,
	"createdAt": true,
	"sharePath": true,
}

// IsReserved reports whether key names a field of the chat document itself
// rather than part of its content.
func IsReserved(key string) bool {
	return reservedFields[key]
}

// SharePath is the public path a shared chat is published under.
func SharePath(id string) string {
	return "/share/" + id
}

func toView(c *data.Chat) *Chat {
	content := make(map[string]any, len(c.Content))
	for k, v := range c.Content {
		content[k] = v
	}
	return &Chat{
		ID:        c.ID,
		UserID:    c.UserID,
		CreatedAt: FormatTime(c.CreatedAt),
		SharePath: c.SharePath,
		Content:   content,
	}
}
