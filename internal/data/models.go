package data

import "time"

// User maps to the users collection. Password holds the salted digest
// produced by auth.Digest, never the plaintext.
type User struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	Salt      string    `bson:"salt"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Chat maps to the chats collection: one document per conversation, keyed by
// its opaque id. Content holds every other field of the conversation
// (title, messages, ...) exactly as the client sent it.
type Chat struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"userId"`
	CreatedAt time.Time      `bson:"createdAt"`
	SharePath string         `bson:"sharePath,omitempty"`
	Content   map[string]any `bson:",inline"`
}

// Clone returns a copy of c whose Content map can be modified independently.
func (c *Chat) Clone() *Chat {
	cp := *c
	if c.Content != nil {
		cp.Content = make(map[string]any, len(c.Content))
		for k, v := range c.Content {
			cp.Content[k] = v
		}
	}
	return &cp
}
