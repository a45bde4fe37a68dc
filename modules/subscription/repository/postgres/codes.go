package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
)

func (r *Repository) GetInviteCode(ctx context.Context, code string) (*entity.InviteCode, error) {
	var model inviteCodeModel
	err := r.queryable().QueryRow(ctx, `
		SELECT code, visibility, created_at FROM invite_codes WHERE code = $1
	`, code).Scan(&model.Code, &model.Visibility, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return mapInviteCodeModelToType(model), nil
}

func (r *Repository) ListPublicInviteCodes(ctx context.Context, limit int32) ([]*entity.InviteCode, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT code, visibility, created_at FROM invite_codes
		WHERE visibility = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, entity.VisibilityPublic.String(), limit)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	codes := make([]*entity.InviteCode, 0)
	for rows.Next() {
		var model inviteCodeModel
		if err := rows.Scan(&model.Code, &model.Visibility, &model.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		codes = append(codes, mapInviteCodeModelToType(model))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return codes, nil
}

func (r *Repository) CreateInviteCode(ctx context.Context, code *entity.InviteCode) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO invite_codes (code, visibility, created_at)
		VALUES ($1, $2, $3)
	`, code.Code, code.Visibility.String(), timestamptzFromTime(code.CreatedAt)); err != nil {
		if isUniqueViolation(err) {
			return errors.WithStack(errs.Duplicate)
		}
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetRechargeCode(ctx context.Context, code string) (*entity.RechargeCode, error) {
	var model rechargeCodeModel
	err := r.queryable().QueryRow(ctx, `
		SELECT code, owner_hint, amount, consumed, created_at FROM recharge_codes WHERE code = $1
	`, code).Scan(&model.Code, &model.OwnerHint, &model.Amount, &model.Consumed, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	rechargeCode, err := mapRechargeCodeModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse recharge code model")
	}
	return rechargeCode, nil
}

func (r *Repository) CreateRechargeCode(ctx context.Context, code *entity.RechargeCode) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO recharge_codes (code, owner_hint, amount, consumed, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, code.Code, code.OwnerHint, numericFromDecimal(code.Amount), code.Consumed, timestamptzFromTime(code.CreatedAt)); err != nil {
		if isUniqueViolation(err) {
			return errors.WithStack(errs.Duplicate)
		}
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

// ConsumeRechargeCode flips the consumed flag with a check-and-set in a single
// statement. Under concurrent redemption of the same code exactly one caller
// gets the row back; the rest observe the flag already set.
func (r *Repository) ConsumeRechargeCode(ctx context.Context, code string) (*entity.RechargeCode, error) {
	var model rechargeCodeModel
	err := r.queryable().QueryRow(ctx, `
		UPDATE recharge_codes SET consumed = TRUE
		WHERE code = $1 AND NOT consumed
		RETURNING code, owner_hint, amount, consumed, created_at
	`, code).Scan(&model.Code, &model.OwnerHint, &model.Amount, &model.Consumed, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetRechargeCode(ctx, code); getErr != nil {
				return nil, errors.WithStack(getErr)
			}
			return nil, errors.WithStack(errs.AlreadyConsumed)
		}
		return nil, errors.Wrap(err, "error during exec")
	}
	rechargeCode, err := mapRechargeCodeModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse recharge code model")
	}
	return rechargeCode, nil
}
