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

// RedeemInvite validates an invite code and returns its visibility. Invite
// codes gate signup and are not consumed by use.
func (u *Usecase) RedeemInvite(ctx context.Context, code string) (entity.Visibility, error) {
	inviteCode, err := u.subscriptionDg.GetInviteCode(ctx, code)
	if err != nil {
		return "", errors.Wrap(err, "failed to get invite code")
	}
	return inviteCode.Visibility, nil
}

// ListPublicInviteCodes returns publicly listed invite codes, newest first.
func (u *Usecase) ListPublicInviteCodes(ctx context.Context) ([]*entity.InviteCode, error) {
	codes, err := u.subscriptionDg.ListPublicInviteCodes(ctx, u.config.PublicInviteLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list invite codes")
	}
	return codes, nil
}

// RedeemRecharge consumes a recharge code and credits its amount to the
// account, in one transaction. Concurrent redemptions of the same code
// resolve to exactly one credit; losers get errs.AlreadyConsumed.
func (u *Usecase) RedeemRecharge(ctx context.Context, code string, accountID int64) (decimal.Decimal, error) {
	subscriptionDgTx, err := u.subscriptionDg.BeginSubscriptionTx(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := subscriptionDgTx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_redeem_recharge"),
			)
		}
	}()

	rechargeCode, err := subscriptionDgTx.ConsumeRechargeCode(ctx, code)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to consume recharge code")
	}
	if _, err := subscriptionDgTx.CreditAccountBalance(ctx, accountID, rechargeCode.Amount); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to credit account")
	}

	if err := subscriptionDgTx.Commit(ctx); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to commit transaction")
	}
	return rechargeCode.Amount, nil
}

// MintInviteCodes mints count invite codes with bounded regenerate-on-collision
// retries. Retry exhaustion means the code space is exhausted or the random
// source is degenerate; it is surfaced as errs.Exhausted for escalation.
func (u *Usecase) MintInviteCodes(ctx context.Context, count int, visibility entity.Visibility, now time.Time) ([]*entity.InviteCode, error) {
	if count < 1 {
		return nil, errors.Wrap(errs.InvalidArgument, "count must be positive")
	}
	codes := make([]*entity.InviteCode, 0, count)
	for i := 0; i < count; i++ {
		inviteCode := &entity.InviteCode{
			Visibility: visibility,
			CreatedAt:  now,
		}
		create := func(code string) error {
			inviteCode.Code = code
			return u.subscriptionDg.CreateInviteCode(ctx, inviteCode)
		}
		if err := u.mintUnique(ctx, u.config.InviteCodeMinLength, create); err != nil {
			return nil, errors.Wrap(err, "failed to mint invite code")
		}
		codes = append(codes, inviteCode)
	}
	return codes, nil
}

// MintRechargeCodes mints count recharge codes of the given amount.
func (u *Usecase) MintRechargeCodes(ctx context.Context, count int, amount decimal.Decimal, ownerHint string, now time.Time) ([]*entity.RechargeCode, error) {
	if count < 1 {
		return nil, errors.Wrap(errs.InvalidArgument, "count must be positive")
	}
	if !amount.IsPositive() {
		return nil, errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}
	codes := make([]*entity.RechargeCode, 0, count)
	for i := 0; i < count; i++ {
		rechargeCode := &entity.RechargeCode{
			OwnerHint: ownerHint,
			Amount:    amount,
			CreatedAt: now,
		}
		create := func(code string) error {
			rechargeCode.Code = code
			return u.subscriptionDg.CreateRechargeCode(ctx, rechargeCode)
		}
		if err := u.mintUnique(ctx, u.config.RechargeCodeMinLength, create); err != nil {
			return nil, errors.Wrap(err, "failed to mint recharge code")
		}
		codes = append(codes, rechargeCode)
	}
	return codes, nil
}

// mintUnique runs the generate-check-retry loop: generate a code, attempt the
// insert, regenerate on collision.
func (u *Usecase) mintUnique(ctx context.Context, minLength int, create func(code string) error) error {
	for attempt := 0; attempt < u.config.MintMaxAttempts; attempt++ {
		code, err := u.codeGenerator.Generate(minLength)
		if err != nil {
			return errors.Wrap(err, "failed to generate code")
		}
		err = create(code)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errs.Duplicate) {
			return errors.Wrap(err, "failed to store code")
		}
		logger.WarnContext(ctx, "generated code collided, regenerating",
			slogx.Int("attempt", attempt+1),
		)
	}
	return errors.Wrapf(errs.Exhausted, "no unique code after %d attempts", u.config.MintMaxAttempts)
}
