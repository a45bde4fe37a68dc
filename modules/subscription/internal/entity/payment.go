package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest records an outstanding ask before gateway confirmation.
type PaymentRequest struct {
	ID          int64
	AccountID   int64
	GatewayRef  string
	Amount      decimal.Decimal
	RequestedAt time.Time
}

// PaymentTransaction is the single source of truth for whether an external
// payment has been credited. GatewayRef and RechargeCode are each globally
// unique, which prevents double-crediting the same gateway notification.
type PaymentTransaction struct {
	ID           int64
	GatewayRef   string
	RechargeCode string
	Amount       decimal.Decimal
	ConfirmedAt  time.Time
}

// Donation is an append-only donation record.
type Donation struct {
	ID        int64
	AccountID int64
	Amount    decimal.Decimal
	DonatedAt time.Time
}
