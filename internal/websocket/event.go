package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the kind of change an event describes
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeRepaid   EventType = "repaid"
	EventTypeDisabled EventType = "disabled"
	EventTypeEnabled  EventType = "enabled"
	EventTypeDeleted  EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeLoan                 EntityType = "loan"
	EntityTypeReceivedRepayment    EntityType = "received_repayment"
	EntityTypeDebitCard            EntityType = "debit_card"
	EntityTypeDebitCardTransaction EntityType = "debit_card_transaction"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "loan.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "loan"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LoanCreated creates a loan.created event
func LoanCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeLoan, payload)
}

// LoanRepaid creates a loan.repaid event, emitted after every accepted
// repayment with the updated loan as payload
func LoanRepaid(payload interface{}) Event {
	return NewEvent(EventTypeRepaid, EntityTypeLoan, payload)
}

// ReceivedRepaymentCreated creates a received_repayment.created event
func ReceivedRepaymentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeReceivedRepayment, payload)
}

// DebitCardCreated creates a debit_card.created event
func DebitCardCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDebitCard, payload)
}

// DebitCardDisabled creates a debit_card.disabled event
func DebitCardDisabled(payload interface{}) Event {
	return NewEvent(EventTypeDisabled, EntityTypeDebitCard, payload)
}

// DebitCardEnabled creates a debit_card.enabled event
func DebitCardEnabled(payload interface{}) Event {
	return NewEvent(EventTypeEnabled, EntityTypeDebitCard, payload)
}

// DebitCardDeleted creates a debit_card.deleted event
func DebitCardDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeDebitCard, payload)
}

// DebitCardTransactionCreated creates a debit_card_transaction.created event
func DebitCardTransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDebitCardTransaction, payload)
}
