package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     1,
		"amount": "5000",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeLoan, payload)
	after := time.Now()

	assert.Equal(t, "loan.created", evt.Type)
	assert.Equal(t, EntityTypeLoan, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":           float64(1),
		"amount":       float64(5000),
		"currencyCode": "VND",
	}

	evt := Event{
		Type:      "loan.created",
		Entity:    EntityTypeLoan,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, float64(5000), decodedPayload["amount"])
	assert.Equal(t, "VND", decodedPayload["currencyCode"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeRepaid, EntityTypeLoan, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "loan.repaid", decoded["type"])
	assert.Equal(t, "loan", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestLoanEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":     float64(1),
		"amount": float64(5000),
	}

	t.Run("LoanCreated", func(t *testing.T) {
		evt := LoanCreated(payload)
		assert.Equal(t, "loan.created", evt.Type)
		assert.Equal(t, EntityTypeLoan, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("LoanRepaid", func(t *testing.T) {
		evt := LoanRepaid(payload)
		assert.Equal(t, "loan.repaid", evt.Type)
		assert.Equal(t, EntityTypeLoan, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("ReceivedRepaymentCreated", func(t *testing.T) {
		evt := ReceivedRepaymentCreated(payload)
		assert.Equal(t, "received_repayment.created", evt.Type)
		assert.Equal(t, EntityTypeReceivedRepayment, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

func TestDebitCardEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":   float64(7),
		"type": "Visa",
	}

	t.Run("DebitCardCreated", func(t *testing.T) {
		evt := DebitCardCreated(payload)
		assert.Equal(t, "debit_card.created", evt.Type)
		assert.Equal(t, EntityTypeDebitCard, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("DebitCardDisabled", func(t *testing.T) {
		evt := DebitCardDisabled(payload)
		assert.Equal(t, "debit_card.disabled", evt.Type)
		assert.Equal(t, EntityTypeDebitCard, evt.Entity)
	})

	t.Run("DebitCardEnabled", func(t *testing.T) {
		evt := DebitCardEnabled(payload)
		assert.Equal(t, "debit_card.enabled", evt.Type)
		assert.Equal(t, EntityTypeDebitCard, evt.Entity)
	})

	t.Run("DebitCardDeleted", func(t *testing.T) {
		evt := DebitCardDeleted(payload)
		assert.Equal(t, "debit_card.deleted", evt.Type)
		assert.Equal(t, EntityTypeDebitCard, evt.Entity)
	})

	t.Run("DebitCardTransactionCreated", func(t *testing.T) {
		evt := DebitCardTransactionCreated(payload)
		assert.Equal(t, "debit_card_transaction.created", evt.Type)
		assert.Equal(t, EntityTypeDebitCardTransaction, evt.Entity)
	})
}
