package feed

import (
	"time"

	"github.com/pourrice/pourrice/internal/nearby"
)

const (
	MessageTypePosition = "position"
	MessageTypeNearby   = "nearby"
	MessageTypePing     = "ping"
	MessageTypePong     = "pong"
	MessageTypeError    = "error"
)

// Message is sent from the server to a feed client.
type Message struct {
	Type       string        `json:"type"`
	Items      []nearby.Item `json:"items"`
	Considered int           `json:"considered,omitempty"`
	Excluded   int           `json:"excluded,omitempty"`
	Content    string        `json:"content,omitempty"`
	ErrorCode  string        `json:"code,omitempty"`
	Timestamp  int64         `json:"timestamp"`
}

// IncomingMessage is sent from a feed client to the server. Lat and Lon are
// both required on a position message.
type IncomingMessage struct {
	Type  string   `json:"type"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Limit int      `json:"limit"`
}

func NewNearbyMessage(result *nearby.Result) *Message {
	return &Message{
		Type:       MessageTypeNearby,
		Items:      result.Items,
		Considered: result.Considered,
		Excluded:   result.Excluded,
		Timestamp:  time.Now().Unix(),
	}
}

func NewErrorMessage(errMsg, code string) *Message {
	return &Message{
		Type:      MessageTypeError,
		Content:   errMsg,
		ErrorCode: code,
		Timestamp: time.Now().Unix(),
	}
}

func NewPongMessage() *Message {
	return &Message{
		Type:      MessageTypePong,
		Timestamp: time.Now().Unix(),
	}
}
