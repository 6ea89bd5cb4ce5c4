package chat

import (
	"encoding/json"
	"time"
)

// Lead is a captured visitor email together with the conversation text at capture time.
type Lead struct {
	Email        string `json:"email" bson:"email"`
	Conversation string `json:"conversation" bson:"conversation"`
}

// LeadRecord is a lead as persisted by the gateway.
type LeadRecord struct {
	ID        string `json:"id" bson:"_id"`
	Lead      `bson:",inline"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// EncodeTranscript serializes a transcript snapshot into the text form stored on a lead.
func EncodeTranscript(messages []Message) (string, error) {
	if messages == nil {
		messages = []Message{}
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
