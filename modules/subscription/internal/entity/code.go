package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

func (v Visibility) String() string {
	return string(v)
}

// InviteCode gates signup. It is validated on use but never consumed.
type InviteCode struct {
	Code       string
	Visibility Visibility
	CreatedAt  time.Time
}

// RechargeCode carries a monetary amount redeemable exactly once.
type RechargeCode struct {
	Code      string
	OwnerHint string
	Amount    decimal.Decimal
	Consumed  bool
	CreatedAt time.Time
}
