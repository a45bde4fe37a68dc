package audit

import (
	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/nebulanet/panel/pkg/parquetutils"
	"github.com/xitongsys/parquet-go/writer"
)

const parquetWriterConcurrency = 4

type purchaseRecordRow struct {
	ID          int64 `parquet:"name=id, type=INT64, repetitiontype=REQUIRED"`
	ProductID   int64 `parquet:"name=product_id, type=INT64, repetitiontype=REQUIRED"`
	AccountID   int64 `parquet:"name=account_id, type=INT64, repetitiontype=REQUIRED"`
	PurchasedAt int64 `parquet:"name=purchased_at, type=INT64, convertedtype=TIMESTAMP_MILLIS, repetitiontype=REQUIRED"`
}

type paymentTransactionRow struct {
	ID           int64  `parquet:"name=id, type=INT64, repetitiontype=REQUIRED"`
	GatewayRef   string `parquet:"name=gateway_ref, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"`
	RechargeCode string `parquet:"name=recharge_code, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"`
	Amount       string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"`
	ConfirmedAt  int64  `parquet:"name=confirmed_at, type=INT64, convertedtype=TIMESTAMP_MILLIS, repetitiontype=REQUIRED"`
}

func encodeRows[T any](rows []T) ([]byte, error) {
	buffer := parquetutils.NewBuffer()
	pw, err := writer.NewParquetWriter(buffer, new(T), parquetWriterConcurrency)
	if err != nil {
		return nil, errors.Wrap(err, "can't create parquet writer")
	}
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			return nil, errors.Wrap(err, "can't write parquet row")
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, errors.Wrap(err, "can't finalize parquet file")
	}
	return buffer.Bytes(), nil
}

func encodePurchaseRecords(records []*entity.PurchaseRecord) ([]byte, error) {
	rows := make([]purchaseRecordRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, purchaseRecordRow{
			ID:          record.ID,
			ProductID:   record.ProductID,
			AccountID:   record.AccountID,
			PurchasedAt: record.PurchasedAt.UnixMilli(),
		})
	}
	return encodeRows(rows)
}

func encodePaymentTransactions(txs []*entity.PaymentTransaction) ([]byte, error) {
	rows := make([]paymentTransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, paymentTransactionRow{
			ID:           tx.ID,
			GatewayRef:   tx.GatewayRef,
			RechargeCode: tx.RechargeCode,
			Amount:       tx.Amount.StringFixed(2),
			ConfirmedAt:  tx.ConfirmedAt.UnixMilli(),
		})
	}
	return encodeRows(rows)
}
