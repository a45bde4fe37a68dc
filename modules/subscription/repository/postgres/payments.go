package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
)

func (r *Repository) GetPaymentRequest(ctx context.Context, gatewayRef string) (*entity.PaymentRequest, error) {
	var model paymentRequestModel
	err := r.queryable().QueryRow(ctx, `
		SELECT id, account_id, gateway_ref, amount, requested_at
		FROM payment_requests WHERE gateway_ref = $1
	`, gatewayRef).Scan(&model.ID, &model.AccountID, &model.GatewayRef, &model.Amount, &model.RequestedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	request, err := mapPaymentRequestModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse payment request model")
	}
	return request, nil
}

func (r *Repository) CreatePaymentRequest(ctx context.Context, request *entity.PaymentRequest) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO payment_requests (account_id, gateway_ref, amount, requested_at)
		VALUES ($1, $2, $3, $4)
	`, request.AccountID, request.GatewayRef, numericFromDecimal(request.Amount), timestamptzFromTime(request.RequestedAt)); err != nil {
		if isUniqueViolation(err) {
			return errors.WithStack(errs.Duplicate)
		}
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetPaymentTransaction(ctx context.Context, gatewayRef string) (*entity.PaymentTransaction, error) {
	var model paymentTransactionModel
	err := r.queryable().QueryRow(ctx, `
		SELECT id, gateway_ref, recharge_code, amount, confirmed_at
		FROM payment_transactions WHERE gateway_ref = $1
	`, gatewayRef).Scan(&model.ID, &model.GatewayRef, &model.RechargeCode, &model.Amount, &model.ConfirmedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	tx, err := mapPaymentTransactionModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse payment transaction model")
	}
	return tx, nil
}

func (r *Repository) CreatePaymentTransaction(ctx context.Context, tx *entity.PaymentTransaction) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO payment_transactions (gateway_ref, recharge_code, amount, confirmed_at)
		VALUES ($1, $2, $3, $4)
	`, tx.GatewayRef, tx.RechargeCode, numericFromDecimal(tx.Amount), timestamptzFromTime(tx.ConfirmedAt)); err != nil {
		if isUniqueViolation(err) {
			return errors.WithStack(errs.Duplicate)
		}
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateDonation(ctx context.Context, donation *entity.Donation) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO donations (account_id, amount, donated_at)
		VALUES ($1, $2, $3)
	`, donation.AccountID, numericFromDecimal(donation.Amount), timestamptzFromTime(donation.DonatedAt)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
