package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type accountModel struct {
	ID           int64
	Username     string
	Balance      pgtype.Numeric
	InviteCode   string
	Tier         int16
	TierExpiry   pgtype.Timestamptz
	TrafficBytes int64
	CreatedAt    pgtype.Timestamptz
}

type nodeModel struct {
	ID           int64
	Name         string
	Address      string
	Method       string
	Protocol     string
	Obfs         string
	CustomMethod bool
	Info         string
	TrafficRate  float64
	Tier         int16
	Status       string
}

type inviteCodeModel struct {
	Code       string
	Visibility string
	CreatedAt  pgtype.Timestamptz
}

type rechargeCodeModel struct {
	Code      string
	OwnerHint string
	Amount    pgtype.Numeric
	Consumed  bool
	CreatedAt pgtype.Timestamptz
}

type productModel struct {
	ID               int64
	Description      string
	TrafficBytes     int64
	Price            pgtype.Numeric
	TierGrant        int16
	TierDurationDays int32
}

type purchaseRecordModel struct {
	ID          int64
	ProductID   int64
	AccountID   int64
	PurchasedAt pgtype.Timestamptz
}

type paymentRequestModel struct {
	ID          int64
	AccountID   int64
	GatewayRef  string
	Amount      pgtype.Numeric
	RequestedAt pgtype.Timestamptz
}

type paymentTransactionModel struct {
	ID           int64
	GatewayRef   string
	RechargeCode string
	Amount       pgtype.Numeric
	ConfirmedAt  pgtype.Timestamptz
}
