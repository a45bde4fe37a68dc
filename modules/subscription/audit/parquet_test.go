package audit

import (
	"testing"
	"time"

	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/nebulanet/panel/pkg/parquetutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePaymentTransactions(t *testing.T) {
	t.Parallel()
	confirmedAt := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	data, err := encodePaymentTransactions([]*entity.PaymentTransaction{
		{
			ID:           42,
			GatewayRef:   "ref-42",
			RechargeCode: "f00dfeedc0ffee42",
			Amount:       decimal.RequireFromString("30.00"),
			ConfirmedAt:  confirmedAt,
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	rows, err := parquetutils.ReadAll[paymentTransactionRow](parquetutils.NewBufferFile(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(42), rows[0].ID)
	assert.Equal(t, "ref-42", rows[0].GatewayRef)
	assert.Equal(t, "30.00", rows[0].Amount)
	assert.Equal(t, confirmedAt.UnixMilli(), rows[0].ConfirmedAt)
}

func TestEncodePurchaseRecords(t *testing.T) {
	t.Parallel()
	purchasedAt := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	data, err := encodePurchaseRecords([]*entity.PurchaseRecord{
		{ID: 1, ProductID: 2, AccountID: 3, PurchasedAt: purchasedAt},
		{ID: 2, ProductID: 2, AccountID: 4, PurchasedAt: purchasedAt},
	})
	require.NoError(t, err)

	rows, err := parquetutils.ReadAll[purchaseRecordRow](parquetutils.NewBufferFile(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].AccountID)
	assert.Equal(t, int64(4), rows[1].AccountID)
}
