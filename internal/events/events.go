package events

import "time"

// Event types
const (
	AccountCreated = "account.created"
	AccountUpdated = "account.updated"
	AccountDeleted = "account.deleted"
)

// AccountEventsStream is the Redis stream every account event is appended to.
const AccountEventsStream = "account.events"

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// AccountCreatedEvent and AccountUpdatedEvent carry the full account state
// after the write.
type AccountCreatedEvent struct {
	ID           int64  `json:"id"`
	Balance      string `json:"balance"`
	CreationDate string `json:"creationDate,omitempty"`
	Type         string `json:"type"`
}

type AccountUpdatedEvent struct {
	ID           int64  `json:"id"`
	Balance      string `json:"balance"`
	CreationDate string `json:"creationDate,omitempty"`
	Type         string `json:"type"`
}

type AccountDeletedEvent struct {
	ID int64 `json:"id"`
}
