package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
)

func (r *Repository) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	var model productModel
	err := r.queryable().QueryRow(ctx, `
		SELECT id, description, traffic_bytes, price, tier_grant, tier_duration_days
		FROM products WHERE id = $1
	`, id).Scan(&model.ID, &model.Description, &model.TrafficBytes, &model.Price, &model.TierGrant, &model.TierDurationDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	product, err := mapProductModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse product model")
	}
	return product, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, description, traffic_bytes, price, tier_grant, tier_duration_days
		FROM products ORDER BY id ASC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	products := make([]*entity.Product, 0)
	for rows.Next() {
		var model productModel
		if err := rows.Scan(&model.ID, &model.Description, &model.TrafficBytes, &model.Price, &model.TierGrant, &model.TierDurationDays); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		product, err := mapProductModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse product model")
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return products, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *entity.Product) (int64, error) {
	var id int64
	err := r.queryable().QueryRow(ctx, `
		INSERT INTO products (description, traffic_bytes, price, tier_grant, tier_duration_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, product.Description, product.TrafficBytes, numericFromDecimal(product.Price), int16(product.TierGrant), product.TierDurationDays).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "error during exec")
	}
	return id, nil
}

func (r *Repository) CreatePurchaseRecord(ctx context.Context, record *entity.PurchaseRecord) (int64, error) {
	var id int64
	err := r.queryable().QueryRow(ctx, `
		INSERT INTO purchase_records (product_id, account_id, purchased_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, record.ProductID, record.AccountID, timestamptzFromTime(record.PurchasedAt)).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "error during exec")
	}
	return id, nil
}
