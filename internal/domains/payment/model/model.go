package model

import (
	"time"

	"boatbook/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldAmount        = "amount"
	FieldPaymentMethod = "payment_method"
	FieldStatus        = "status"
	FieldTransactionID = "transaction_id"
	FieldPaymentDate   = "payment_date"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

type Payment struct {
	ID            string     `db:"id"`
	BookingID     string     `db:"booking_id"`
	Amount        float64    `db:"amount"`
	PaymentMethod string     `db:"payment_method"`
	Status        string     `db:"status"`
	TransactionID string     `db:"transaction_id"`
	PaymentDate   *time.Time `db:"payment_date"`
	model.Metadata
}
