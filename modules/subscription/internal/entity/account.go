package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxTier is the highest entitlement tier. Node tiers are bound to the same
// range.
const MaxTier = 9

type Account struct {
	ID           int64
	Username     string
	Balance      decimal.Decimal
	InviteCode   string
	Tier         uint8
	TierExpiry   time.Time
	TrafficBytes int64
	CreatedAt    time.Time
}

// EffectiveTier returns the stored tier while it is still active, and 0 once
// expired. The boundary at exact equality resolves to expired. This computed
// value, not the stored field, is authoritative for eligibility decisions.
func (a Account) EffectiveTier(now time.Time) uint8 {
	if now.Before(a.TierExpiry) {
		return a.Tier
	}
	return 0
}
