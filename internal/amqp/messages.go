package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"

	CollectionTransactions       = "transactions"
	CollectionBlueWithdrawals    = "blue_withdrawals"
	CollectionCempakaWithdrawals = "cempaka_withdrawals"
)

// ChangeMessage announces that one of the record collections changed.
// It carries only identifiers; consumers reload the full snapshot and
// recompute, so a lost or reordered message costs nothing but latency.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	ID         int64     `json:"id,omitempty"`
	GroupID    string    `json:"groupId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(collection, action string, id int64, groupID string) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		Action:     action,
		ID:         id,
		GroupID:    groupID,
		Timestamp:  time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
