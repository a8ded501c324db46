package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operation names a ledger mutation.
type Operation string

const (
	OpCreated Operation = "created"
	OpUpdated Operation = "updated"
	OpDeleted Operation = "deleted"
)

func (o Operation) IsValid() bool {
	switch o {
	case OpCreated, OpUpdated, OpDeleted:
		return true
	default:
		return false
	}
}

// TransactionEvent is a lightweight change notification. Consumers read the
// current state from the store; the event carries only the id.
type TransactionEvent struct {
	Op        Operation `json:"op"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(op Operation, id int64) *TransactionEvent {
	return &TransactionEvent{
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and checks an event body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if !e.Op.IsValid() {
		return nil, fmt.Errorf("unknown event operation %q", e.Op)
	}
	return &e, nil
}
