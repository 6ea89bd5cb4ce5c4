package chat

import "time"

// Author identifies who wrote a message.
type Author string

const (
	AuthorUser Author = "user"
	AuthorBot  Author = "bot"
)

// Message is one turn of a widget conversation.
type Message struct {
	Content   string    `json:"content" bson:"content"`
	Author    Author    `json:"type" bson:"type"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Record is a message as persisted by the gateway.
type Record struct {
	ID        string `json:"id" bson:"_id"`
	Message   `bson:",inline"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
