package usecase

import (
	"context"
	"testing"

	"github.com/nebulanet/panel/common/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPayment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, dg, _ := newTestUsecase(t)
	accountID := seedAccount(t, dg, "0.00")

	t.Run("rejects non positive amount", func(t *testing.T) {
		_, err := u.RequestPayment(ctx, accountID, decimal.Zero, testNow)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := u.RequestPayment(ctx, 999, decimal.RequireFromString("5.00"), testNow)
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("records request with fresh gateway reference", func(t *testing.T) {
		first, err := u.RequestPayment(ctx, accountID, decimal.RequireFromString("5.00"), testNow)
		require.NoError(t, err)
		assert.NotEmpty(t, first.GatewayRef)

		second, err := u.RequestPayment(ctx, accountID, decimal.RequireFromString("5.00"), testNow)
		require.NoError(t, err)
		assert.NotEqual(t, first.GatewayRef, second.GatewayRef)

		stored, err := dg.GetPaymentRequest(ctx, first.GatewayRef)
		require.NoError(t, err)
		assert.Equal(t, accountID, stored.AccountID)
	})
}

func TestConfirmGatewayPayment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	amount := decimal.RequireFromString("30.00")

	t.Run("unmatched reference is alerted, nothing mutated", func(t *testing.T) {
		t.Parallel()
		u, dg, alerter := newTestUsecase(t)
		seedAccount(t, dg, "0.00")

		status, err := u.ConfirmGatewayPayment(ctx, "no-such-ref", amount, testNow)
		require.NoError(t, err)
		assert.Equal(t, ConfirmationUnmatched, status)

		require.Len(t, alerter.payloads, 1)
		assert.Equal(t, "no-such-ref", alerter.payloads[0].GatewayRef)

		_, err = dg.GetPaymentTransaction(ctx, "no-such-ref")
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("applied once, duplicate afterwards", func(t *testing.T) {
		t.Parallel()
		u, dg, _ := newTestUsecase(t)
		accountID := seedAccount(t, dg, "0.00")

		request, err := u.RequestPayment(ctx, accountID, amount, testNow)
		require.NoError(t, err)

		status, err := u.ConfirmGatewayPayment(ctx, request.GatewayRef, amount, testNow)
		require.NoError(t, err)
		assert.Equal(t, ConfirmationApplied, status)

		// repeated gateway callbacks are no-ops
		for i := 0; i < 2; i++ {
			status, err = u.ConfirmGatewayPayment(ctx, request.GatewayRef, amount, testNow)
			require.NoError(t, err)
			assert.Equal(t, ConfirmationDuplicate, status)
		}

		account, err := dg.GetAccount(ctx, accountID)
		require.NoError(t, err)
		assert.True(t, account.Balance.Equal(amount))

		tx, err := dg.GetPaymentTransaction(ctx, request.GatewayRef)
		require.NoError(t, err)
		assert.True(t, tx.Amount.Equal(amount))

		linked, err := dg.GetRechargeCode(ctx, tx.RechargeCode)
		require.NoError(t, err)
		assert.True(t, linked.Consumed)
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		t.Parallel()
		u, _, _ := newTestUsecase(t)
		_, err := u.ConfirmGatewayPayment(ctx, "ref", decimal.Zero, testNow)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}

func TestRecordDonation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, dg, _ := newTestUsecase(t)
	accountID := seedAccount(t, dg, "0.00")

	require.NoError(t, u.RecordDonation(ctx, accountID, decimal.RequireFromString("2.00"), testNow))

	err := u.RecordDonation(ctx, accountID, decimal.Zero, testNow)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	err = u.RecordDonation(ctx, 999, decimal.RequireFromString("2.00"), testNow)
	assert.ErrorIs(t, err, errs.NotFound)
}
