package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/nebulanet/panel/pkg/alertclient"
	"github.com/nebulanet/panel/pkg/logger"
	"github.com/nebulanet/panel/pkg/logger/slogx"
	"github.com/shopspring/decimal"
)

type ConfirmationStatus string

const (
	ConfirmationApplied   ConfirmationStatus = "applied"
	ConfirmationDuplicate ConfirmationStatus = "duplicate"
	ConfirmationUnmatched ConfirmationStatus = "unmatched"
)

// RequestPayment records an outstanding payment ask and returns the gateway
// reference the external gateway will echo back on confirmation.
func (u *Usecase) RequestPayment(ctx context.Context, accountID int64, amount decimal.Decimal, now time.Time) (*entity.PaymentRequest, error) {
	if !amount.IsPositive() {
		return nil, errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}
	if _, err := u.subscriptionDg.GetAccount(ctx, accountID); err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	request := &entity.PaymentRequest{
		AccountID:   accountID,
		GatewayRef:  uuid.NewString(),
		Amount:      amount,
		RequestedAt: now,
	}
	if err := u.subscriptionDg.CreatePaymentRequest(ctx, request); err != nil {
		return nil, errors.Wrap(err, "failed to create payment request")
	}
	return request, nil
}

// ConfirmGatewayPayment reconciles an external gateway confirmation against
// the recorded payment request. Repeated confirmations of the same reference
// are no-ops reported as duplicate, so the gateway may retry freely. An
// unknown reference is reported as unmatched and queued for operator review
// instead of being discarded.
func (u *Usecase) ConfirmGatewayPayment(ctx context.Context, gatewayRef string, amount decimal.Decimal, now time.Time) (ConfirmationStatus, error) {
	if !amount.IsPositive() {
		return "", errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}

	subscriptionDgTx, err := u.subscriptionDg.BeginSubscriptionTx(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := subscriptionDgTx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_gateway_confirmation"),
			)
		}
	}()

	request, err := subscriptionDgTx.GetPaymentRequest(ctx, gatewayRef)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			u.notifyUnmatched(ctx, gatewayRef, amount, now)
			return ConfirmationUnmatched, nil
		}
		return "", errors.Wrap(err, "failed to get payment request")
	}

	if _, err := subscriptionDgTx.GetPaymentTransaction(ctx, gatewayRef); err == nil {
		return ConfirmationDuplicate, nil
	} else if !errors.Is(err, errs.NotFound) {
		return "", errors.Wrap(err, "failed to get payment transaction")
	}

	code, err := u.freeRechargeCode(ctx, subscriptionDgTx)
	if err != nil {
		return "", errors.Wrap(err, "failed to find free recharge code")
	}
	if err := subscriptionDgTx.CreateRechargeCode(ctx, &entity.RechargeCode{
		Code:      code,
		OwnerHint: gatewayRef,
		Amount:    amount,
		CreatedAt: now,
	}); err != nil {
		return "", errors.Wrap(err, "failed to create recharge code")
	}
	if err := subscriptionDgTx.CreatePaymentTransaction(ctx, &entity.PaymentTransaction{
		GatewayRef:   gatewayRef,
		RechargeCode: code,
		Amount:       amount,
		ConfirmedAt:  now,
	}); err != nil {
		// a lost race against a concurrent confirmation of the same reference
		if errors.Is(err, errs.Duplicate) {
			return ConfirmationDuplicate, nil
		}
		return "", errors.Wrap(err, "failed to create payment transaction")
	}
	if _, err := subscriptionDgTx.ConsumeRechargeCode(ctx, code); err != nil {
		return "", errors.Wrap(err, "failed to consume recharge code")
	}
	if _, err := subscriptionDgTx.CreditAccountBalance(ctx, request.AccountID, amount); err != nil {
		return "", errors.Wrap(err, "failed to credit account")
	}

	if err := subscriptionDgTx.Commit(ctx); err != nil {
		return "", errors.Wrap(err, "failed to commit transaction")
	}
	return ConfirmationApplied, nil
}

// freeRechargeCode generates a code not yet present in the store. The check
// is a read so a collision does not abort the surrounding transaction.
func (u *Usecase) freeRechargeCode(ctx context.Context, dg interface {
	GetRechargeCode(ctx context.Context, code string) (*entity.RechargeCode, error)
},
) (string, error) {
	for attempt := 0; attempt < u.config.MintMaxAttempts; attempt++ {
		code, err := u.codeGenerator.Generate(u.config.RechargeCodeMinLength)
		if err != nil {
			return "", errors.Wrap(err, "failed to generate code")
		}
		_, err = dg.GetRechargeCode(ctx, code)
		if errors.Is(err, errs.NotFound) {
			return code, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to check code")
		}
	}
	return "", errors.Wrapf(errs.Exhausted, "no unique code after %d attempts", u.config.MintMaxAttempts)
}

func (u *Usecase) notifyUnmatched(ctx context.Context, gatewayRef string, amount decimal.Decimal, now time.Time) {
	logger.WarnContext(ctx, "unmatched gateway confirmation",
		slogx.String("gatewayRef", gatewayRef),
		slogx.String("amount", amount.String()),
	)
	if u.alerter == nil {
		return
	}
	if err := u.alerter.SubmitUnmatchedPayment(ctx, alertclient.UnmatchedPaymentPayload{
		GatewayRef: gatewayRef,
		Amount:     amount,
		ReceivedAt: now,
	}); err != nil {
		logger.WarnContext(ctx, "failed to submit unmatched payment alert", slogx.Error(err))
	}
}

// RecordDonation appends a donation record.
func (u *Usecase) RecordDonation(ctx context.Context, accountID int64, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}
	if _, err := u.subscriptionDg.GetAccount(ctx, accountID); err != nil {
		return errors.Wrap(err, "failed to get account")
	}
	if err := u.subscriptionDg.CreateDonation(ctx, &entity.Donation{
		AccountID: accountID,
		Amount:    amount,
		DonatedAt: now,
	}); err != nil {
		return errors.Wrap(err, "failed to create donation")
	}
	return nil
}
