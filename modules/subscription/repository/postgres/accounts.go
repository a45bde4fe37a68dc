package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/shopspring/decimal"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) GetAccount(ctx context.Context, id int64) (*entity.Account, error) {
	var model accountModel
	err := r.queryable().QueryRow(ctx, `
		SELECT id, username, balance, invite_code, tier, tier_expiry, traffic_bytes, created_at
		FROM accounts WHERE id = $1
	`, id).Scan(&model.ID, &model.Username, &model.Balance, &model.InviteCode, &model.Tier, &model.TierExpiry, &model.TrafficBytes, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	account, err := mapAccountModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse account model")
	}
	return account, nil
}

func (r *Repository) CreateAccount(ctx context.Context, account *entity.Account) (int64, error) {
	var id int64
	err := r.queryable().QueryRow(ctx, `
		INSERT INTO accounts (username, balance, invite_code, tier, tier_expiry, traffic_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, account.Username, numericFromDecimal(account.Balance), account.InviteCode, int16(account.Tier), timestamptzFromTime(account.TierExpiry), account.TrafficBytes, timestamptzFromTime(account.CreatedAt)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errors.WithStack(errs.Duplicate)
		}
		return 0, errors.Wrap(err, "error during exec")
	}
	return id, nil
}

func (r *Repository) CreditAccountBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance pgtype.Numeric
	err := r.queryable().QueryRow(ctx, `
		UPDATE accounts SET balance = balance + $2
		WHERE id = $1
		RETURNING balance
	`, id, numericFromDecimal(amount)).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, errors.WithStack(errs.NotFound)
		}
		return decimal.Zero, errors.Wrap(err, "error during exec")
	}
	newBalance, err := decimalFromNumeric(balance)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to parse balance")
	}
	return newBalance, nil
}

// DebitAccountBalance guards against overdraft in the statement itself. No
// match means either a missing account or an insufficient balance, so a second
// lookup disambiguates.
func (r *Repository) DebitAccountBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance pgtype.Numeric
	err := r.queryable().QueryRow(ctx, `
		UPDATE accounts SET balance = balance - $2
		WHERE id = $1 AND balance >= $2
		RETURNING balance
	`, id, numericFromDecimal(amount)).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetAccount(ctx, id); getErr != nil {
				return decimal.Zero, errors.WithStack(getErr)
			}
			return decimal.Zero, errors.WithStack(errs.InsufficientBalance)
		}
		return decimal.Zero, errors.Wrap(err, "error during exec")
	}
	newBalance, err := decimalFromNumeric(balance)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to parse balance")
	}
	return newBalance, nil
}

func (r *Repository) SetAccountTier(ctx context.Context, id int64, tier uint8, expiry time.Time) error {
	tag, err := r.queryable().Exec(ctx, `
		UPDATE accounts SET tier = $2, tier_expiry = $3 WHERE id = $1
	`, id, int16(tier), timestamptzFromTime(expiry))
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

func (r *Repository) AddAccountTraffic(ctx context.Context, id int64, bytes int64) error {
	tag, err := r.queryable().Exec(ctx, `
		UPDATE accounts SET traffic_bytes = traffic_bytes + $2 WHERE id = $1
	`, id, bytes)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}
