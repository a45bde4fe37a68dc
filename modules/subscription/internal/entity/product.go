package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a shop item. TrafficBytes is the raw allowance granted on
// purchase; display conversion to operator units happens at the edge.
type Product struct {
	ID               int64
	Description      string
	TrafficBytes     int64
	Price            decimal.Decimal
	TierGrant        uint8
	TierDurationDays int32
}

// TrafficUnits returns the traffic grant expressed in the operator-configured
// unit (e.g. one GB).
func (p Product) TrafficUnits(unitBytes int64) float64 {
	if unitBytes <= 0 {
		return 0
	}
	return float64(p.TrafficBytes) / float64(unitBytes)
}

// PurchaseRecord is the immutable audit trail of a shop purchase.
type PurchaseRecord struct {
	ID          int64
	ProductID   int64
	AccountID   int64
	PurchasedAt time.Time
}
