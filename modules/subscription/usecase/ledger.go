package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/nebulanet/panel/pkg/logger"
	"github.com/nebulanet/panel/pkg/logger/slogx"
	"github.com/shopspring/decimal"
)

// Credit adds amount to the account balance and returns the new balance.
func (u *Usecase) Credit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}
	balance, err := u.subscriptionDg.CreditAccountBalance(ctx, accountID, amount)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to credit account")
	}
	return balance, nil
}

// Debit subtracts amount from the account balance and returns the new
// balance. Returns errs.InsufficientBalance with no partial effect when the
// balance would go negative.
func (u *Usecase) Debit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}
	balance, err := u.subscriptionDg.DebitAccountBalance(ctx, accountID, amount)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to debit account")
	}
	return balance, nil
}

// PurchaseResult is the receipt returned to the buyer.
type PurchaseResult struct {
	Record     *entity.PurchaseRecord
	NewBalance decimal.Decimal
}

// Purchase applies the four effects of a shop purchase in one transaction:
// debit the price, grant the product tier, add the traffic allowance and
// append the purchase record. A failure at any step rolls back all of them.
func (u *Usecase) Purchase(ctx context.Context, accountID, productID int64, now time.Time) (*PurchaseResult, error) {
	product, err := u.subscriptionDg.GetProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get product")
	}

	subscriptionDgTx, err := u.subscriptionDg.BeginSubscriptionTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := subscriptionDgTx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_purchase"),
			)
		}
	}()

	newBalance, err := subscriptionDgTx.DebitAccountBalance(ctx, accountID, product.Price)
	if err != nil {
		return nil, errors.Wrap(err, "failed to debit purchase price")
	}
	if err := subscriptionDgTx.SetAccountTier(ctx, accountID, product.TierGrant, now.AddDate(0, 0, int(product.TierDurationDays))); err != nil {
		return nil, errors.Wrap(err, "failed to grant tier")
	}
	if err := subscriptionDgTx.AddAccountTraffic(ctx, accountID, product.TrafficBytes); err != nil {
		return nil, errors.Wrap(err, "failed to add traffic allowance")
	}
	record := &entity.PurchaseRecord{
		ProductID:   product.ID,
		AccountID:   accountID,
		PurchasedAt: now,
	}
	record.ID, err = subscriptionDgTx.CreatePurchaseRecord(ctx, record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create purchase record")
	}

	if err := subscriptionDgTx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return &PurchaseResult{
		Record:     record,
		NewBalance: newBalance,
	}, nil
}

// ListProducts returns the shop catalog.
func (u *Usecase) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := u.subscriptionDg.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	return products, nil
}
