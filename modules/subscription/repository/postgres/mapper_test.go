package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalFromNumeric(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		src := numericFromDecimal(decimal.RequireFromString("12.50"))

		result, err := decimalFromNumeric(src)
		assert.NoError(t, err)
		assert.True(t, result.Equal(decimal.RequireFromString("12.50")))
	})
	t.Run("invalid maps to zero", func(t *testing.T) {
		result, err := decimalFromNumeric(pgtype.Numeric{})
		assert.NoError(t, err)
		assert.True(t, result.IsZero())
	})
	t.Run("nan", func(t *testing.T) {
		_, err := decimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true})
		assert.Error(t, err)
	})
	t.Run("negative round trip", func(t *testing.T) {
		src := decimal.RequireFromString("-0.001")

		result, err := decimalFromNumeric(numericFromDecimal(src))
		assert.NoError(t, err)
		assert.True(t, result.Equal(src))
	})
}

func TestTimestamptzRoundTrip(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		src := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, src, timeFromTimestamptz(timestamptzFromTime(src)))
	})
	t.Run("zero value stays invalid", func(t *testing.T) {
		assert.False(t, timestamptzFromTime(time.Time{}).Valid)
		assert.True(t, timeFromTimestamptz(pgtype.Timestamptz{}).IsZero())
	})
}

func TestMapAccountModelToType(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	model := accountModel{
		ID:           7,
		Username:     "alice",
		Balance:      numericFromDecimal(decimal.RequireFromString("99.90")),
		InviteCode:   "a1b2c3d4e5f60718293a4b5c6d7e8f90",
		Tier:         3,
		TierExpiry:   timestamptzFromTime(now.AddDate(0, 1, 0)),
		TrafficBytes: 1 << 30,
		CreatedAt:    timestamptzFromTime(now),
	}

	account, err := mapAccountModelToType(model)
	require.NoError(t, err)
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("99.90")))
	assert.Equal(t, uint8(3), account.Tier)
	assert.Equal(t, now.AddDate(0, 1, 0), account.TierExpiry)
	assert.Equal(t, int64(1<<30), account.TrafficBytes)
	assert.Equal(t, now, account.CreatedAt)
}
