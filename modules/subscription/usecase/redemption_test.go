package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/nebulanet/panel/pkg/codegen"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemInvite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, dg, _ := newTestUsecase(t)

	require.NoError(t, dg.CreateInviteCode(ctx, &entity.InviteCode{
		Code:       "a1b2c3d4e5f60718",
		Visibility: entity.VisibilityPublic,
		CreatedAt:  testNow,
	}))

	t.Run("unknown code", func(t *testing.T) {
		_, err := u.RedeemInvite(ctx, "missing")
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("returns visibility and does not consume", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			visibility, err := u.RedeemInvite(ctx, "a1b2c3d4e5f60718")
			require.NoError(t, err)
			assert.Equal(t, entity.VisibilityPublic, visibility)
		}
	})
}

func TestRedeemRecharge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, dg, _ := newTestUsecase(t)
	accountID := seedAccount(t, dg, "0.00")

	require.NoError(t, dg.CreateRechargeCode(ctx, &entity.RechargeCode{
		Code:      "f00dfeedc0ffee42",
		Amount:    decimal.RequireFromString("10.00"),
		CreatedAt: testNow,
	}))

	t.Run("unknown code", func(t *testing.T) {
		_, err := u.RedeemRecharge(ctx, "missing", accountID)
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("credits exactly once", func(t *testing.T) {
		amount, err := u.RedeemRecharge(ctx, "f00dfeedc0ffee42", accountID)
		require.NoError(t, err)
		assert.True(t, amount.Equal(decimal.RequireFromString("10.00")))

		_, err = u.RedeemRecharge(ctx, "f00dfeedc0ffee42", accountID)
		assert.ErrorIs(t, err, errs.AlreadyConsumed)

		account, err := dg.GetAccount(ctx, accountID)
		require.NoError(t, err)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("10.00")))
	})
}

func TestRedeemRechargeConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, dg, _ := newTestUsecase(t)
	accountID := seedAccount(t, dg, "0.00")

	require.NoError(t, dg.CreateRechargeCode(ctx, &entity.RechargeCode{
		Code:      "deadbeef00112233",
		Amount:    decimal.RequireFromString("25.00"),
		CreatedAt: testNow,
	}))

	const redeemers = 16
	var wg sync.WaitGroup
	results := make([]error, redeemers)
	for i := 0; i < redeemers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = u.RedeemRecharge(ctx, "deadbeef00112233", accountID)
		}(i)
	}
	wg.Wait()

	var winners int
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, errs.AlreadyConsumed)
		}
	}
	assert.Equal(t, 1, winners)

	account, err := dg.GetAccount(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("25.00")))
}

func TestMintInviteCodes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, dg, _ := newTestUsecase(t)

	codes, err := u.MintInviteCodes(ctx, 5, entity.VisibilityPrivate, testNow)
	require.NoError(t, err)
	require.Len(t, codes, 5)

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.GreaterOrEqual(t, len(code.Code), 16)
		assert.False(t, seen[code.Code])
		seen[code.Code] = true

		stored, err := dg.GetInviteCode(ctx, code.Code)
		require.NoError(t, err)
		assert.Equal(t, entity.VisibilityPrivate, stored.Visibility)
	}

	_, err = u.MintInviteCodes(ctx, 0, entity.VisibilityPrivate, testNow)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestMintRechargeCodes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u, dg, _ := newTestUsecase(t)

	codes, err := u.MintRechargeCodes(ctx, 3, decimal.RequireFromString("10.00"), "batch-2024-05", testNow)
	require.NoError(t, err)
	require.Len(t, codes, 3)
	for _, code := range codes {
		assert.GreaterOrEqual(t, len(code.Code), 12)
		stored, err := dg.GetRechargeCode(ctx, code.Code)
		require.NoError(t, err)
		assert.False(t, stored.Consumed)
		assert.True(t, stored.Amount.Equal(decimal.RequireFromString("10.00")))
		assert.Equal(t, "batch-2024-05", stored.OwnerHint)
	}

	_, err = u.MintRechargeCodes(ctx, 1, decimal.Zero, "", testNow)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestMintExhaustsOnDegenerateRandomness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dg := newMemDataGateway()

	// a constant random source generates the same code every draw, so every
	// mint after the first collides until the retry budget runs out
	u := New(dg, codegen.NewWithReader(strings.NewReader(strings.Repeat("\xab", 1<<16))), nil, Config{})

	_, err := u.MintInviteCodes(ctx, 1, entity.VisibilityPrivate, testNow)
	require.NoError(t, err)

	_, err = u.MintInviteCodes(ctx, 1, entity.VisibilityPrivate, testNow)
	assert.ErrorIs(t, err, errs.Exhausted)
}
