package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Stream names for the transfer saga. Each downstream service owns one
// durable consumer group per stream it reads.
const (
	StreamTransferRequested = "transfer-requested"
	StreamTransferValidated = "transfer-validated"
	StreamTransferRejected  = "transfer-rejected"
)

// Event is a single record read from a stream. ID is the bus-assigned
// ordering position, used to acknowledge consumption.
type Event struct {
	ID     string
	Stream string
	Values map[string]string
}

// TransferRequestedEvent is published by the orchestrator after the
// PENDING transaction row is durable.
type TransferRequestedEvent struct {
	TransactionID string
	ReferenceNo   string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
	Timestamp     time.Time
}

// Values flattens the event for the stream wire format.
func (e TransferRequestedEvent) Values() map[string]string {
	return map[string]string{
		"transactionId": e.TransactionID,
		"referenceNo":   e.ReferenceNo,
		"fromAccountId": e.FromAccountID,
		"toAccountId":   e.ToAccountID,
		"amount":        e.Amount.String(),
		"description":   e.Description,
		"timestamp":     e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// ParseTransferRequested decodes a stream record into a typed event.
func ParseTransferRequested(ev Event) (TransferRequestedEvent, error) {
	amount, err := decimal.NewFromString(ev.Values["amount"])
	if err != nil {
		return TransferRequestedEvent{}, fmt.Errorf("invalid amount in event %s: %w", ev.ID, err)
	}

	if ev.Values["transactionId"] == "" {
		return TransferRequestedEvent{}, fmt.Errorf("missing transactionId in event %s", ev.ID)
	}

	return TransferRequestedEvent{
		TransactionID: ev.Values["transactionId"],
		ReferenceNo:   ev.Values["referenceNo"],
		FromAccountID: ev.Values["fromAccountId"],
		ToAccountID:   ev.Values["toAccountId"],
		Amount:        amount,
		Description:   ev.Values["description"],
	}, nil
}

// TransferValidatedEvent is published by the fraud engine when a transfer
// passes screening.
type TransferValidatedEvent struct {
	TransactionID string
	RiskScore     int
	RiskLevel     RiskLevel
	Details       string
	Timestamp     time.Time
}

// Values flattens the event for the stream wire format.
func (e TransferValidatedEvent) Values() map[string]string {
	return map[string]string{
		"transactionId": e.TransactionID,
		"riskScore":     fmt.Sprintf("%d", e.RiskScore),
		"riskLevel":     string(e.RiskLevel),
		"details":       e.Details,
		"timestamp":     e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// TransferRejectedEvent is published by the fraud engine when a transfer
// is flagged.
type TransferRejectedEvent struct {
	TransactionID string
	RiskScore     int
	RiskLevel     RiskLevel
	Reason        string
	Timestamp     time.Time
}

// Values flattens the event for the stream wire format.
func (e TransferRejectedEvent) Values() map[string]string {
	return map[string]string{
		"transactionId": e.TransactionID,
		"riskScore":     fmt.Sprintf("%d", e.RiskScore),
		"riskLevel":     string(e.RiskLevel),
		"reason":        e.Reason,
		"timestamp":     e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// TransactionIDOf extracts the transaction id carried by any saga event.
// Causal order within one transfer's event chain rests on this field.
func TransactionIDOf(ev Event) (string, error) {
	id := ev.Values["transactionId"]
	if id == "" {
		return "", fmt.Errorf("missing transactionId in event %s on %s", ev.ID, ev.Stream)
	}

	return id, nil
}
