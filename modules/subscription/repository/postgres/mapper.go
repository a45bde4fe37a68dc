package postgres

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/shopspring/decimal"
)

func decimalFromNumeric(src pgtype.Numeric) (decimal.Decimal, error) {
	if !src.Valid {
		return decimal.Zero, nil
	}
	if src.NaN {
		return decimal.Zero, errors.New("numeric value is NaN")
	}
	return decimal.NewFromBigInt(src.Int, src.Exp), nil
}

func numericFromDecimal(src decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   src.Coefficient(),
		Exp:   src.Exponent(),
		Valid: true,
	}
}

func timeFromTimestamptz(src pgtype.Timestamptz) time.Time {
	if !src.Valid {
		return time.Time{}
	}
	return src.Time.UTC()
}

func timestamptzFromTime(src time.Time) pgtype.Timestamptz {
	if src.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: src, Valid: true}
}

func mapAccountModelToType(src accountModel) (*entity.Account, error) {
	balance, err := decimalFromNumeric(src.Balance)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse balance")
	}
	return &entity.Account{
		ID:           src.ID,
		Username:     src.Username,
		Balance:      balance,
		InviteCode:   src.InviteCode,
		Tier:         uint8(src.Tier),
		TierExpiry:   timeFromTimestamptz(src.TierExpiry),
		TrafficBytes: src.TrafficBytes,
		CreatedAt:    timeFromTimestamptz(src.CreatedAt),
	}, nil
}

func mapNodeModelToType(src nodeModel) *entity.Node {
	return &entity.Node{
		ID:           src.ID,
		Name:         src.Name,
		Address:      src.Address,
		Method:       src.Method,
		Protocol:     src.Protocol,
		Obfs:         src.Obfs,
		CustomMethod: src.CustomMethod,
		Info:         src.Info,
		TrafficRate:  src.TrafficRate,
		Tier:         uint8(src.Tier),
		Status:       entity.NodeStatus(src.Status),
	}
}

func mapInviteCodeModelToType(src inviteCodeModel) *entity.InviteCode {
	return &entity.InviteCode{
		Code:       src.Code,
		Visibility: entity.Visibility(src.Visibility),
		CreatedAt:  timeFromTimestamptz(src.CreatedAt),
	}
}

func mapRechargeCodeModelToType(src rechargeCodeModel) (*entity.RechargeCode, error) {
	amount, err := decimalFromNumeric(src.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}
	return &entity.RechargeCode{
		Code:      src.Code,
		OwnerHint: src.OwnerHint,
		Amount:    amount,
		Consumed:  src.Consumed,
		CreatedAt: timeFromTimestamptz(src.CreatedAt),
	}, nil
}

func mapProductModelToType(src productModel) (*entity.Product, error) {
	price, err := decimalFromNumeric(src.Price)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse price")
	}
	return &entity.Product{
		ID:               src.ID,
		Description:      src.Description,
		TrafficBytes:     src.TrafficBytes,
		Price:            price,
		TierGrant:        uint8(src.TierGrant),
		TierDurationDays: src.TierDurationDays,
	}, nil
}

func mapPurchaseRecordModelToType(src purchaseRecordModel) *entity.PurchaseRecord {
	return &entity.PurchaseRecord{
		ID:          src.ID,
		ProductID:   src.ProductID,
		AccountID:   src.AccountID,
		PurchasedAt: timeFromTimestamptz(src.PurchasedAt),
	}
}

func mapPaymentRequestModelToType(src paymentRequestModel) (*entity.PaymentRequest, error) {
	amount, err := decimalFromNumeric(src.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}
	return &entity.PaymentRequest{
		ID:          src.ID,
		AccountID:   src.AccountID,
		GatewayRef:  src.GatewayRef,
		Amount:      amount,
		RequestedAt: timeFromTimestamptz(src.RequestedAt),
	}, nil
}

func mapPaymentTransactionModelToType(src paymentTransactionModel) (*entity.PaymentTransaction, error) {
	amount, err := decimalFromNumeric(src.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}
	return &entity.PaymentTransaction{
		ID:           src.ID,
		GatewayRef:   src.GatewayRef,
		RechargeCode: src.RechargeCode,
		Amount:       amount,
		ConfirmedAt:  timeFromTimestamptz(src.ConfirmedAt),
	}, nil
}
