package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
)

func (r *Repository) ListPurchaseRecordsAfter(ctx context.Context, afterID int64, limit int32) ([]*entity.PurchaseRecord, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, product_id, account_id, purchased_at
		FROM purchase_records
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`, afterID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	records := make([]*entity.PurchaseRecord, 0)
	for rows.Next() {
		var model purchaseRecordModel
		if err := rows.Scan(&model.ID, &model.ProductID, &model.AccountID, &model.PurchasedAt); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		records = append(records, mapPurchaseRecordModelToType(model))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return records, nil
}

func (r *Repository) ListPaymentTransactionsAfter(ctx context.Context, afterID int64, limit int32) ([]*entity.PaymentTransaction, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, gateway_ref, recharge_code, amount, confirmed_at
		FROM payment_transactions
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`, afterID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	txs := make([]*entity.PaymentTransaction, 0)
	for rows.Next() {
		var model paymentTransactionModel
		if err := rows.Scan(&model.ID, &model.GatewayRef, &model.RechargeCode, &model.Amount, &model.ConfirmedAt); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		tx, err := mapPaymentTransactionModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse payment transaction model")
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return txs, nil
}

func (r *Repository) GetExportOffset(ctx context.Context, stream string) (int64, error) {
	var lastID int64
	err := r.queryable().QueryRow(ctx, `
		SELECT last_id FROM audit_export_offsets WHERE stream = $1
	`, stream).Scan(&lastID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "error during query")
	}
	return lastID, nil
}

func (r *Repository) SetExportOffset(ctx context.Context, stream string, lastID int64) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO audit_export_offsets (stream, last_id)
		VALUES ($1, $2)
		ON CONFLICT (stream) DO UPDATE SET last_id = EXCLUDED.last_id
	`, stream, lastID); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
