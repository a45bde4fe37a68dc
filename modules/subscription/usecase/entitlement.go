package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
)

// EffectiveTier returns the account's tier with expiry applied. The computed
// value is authoritative for eligibility decisions, not the stored field.
func (u *Usecase) EffectiveTier(ctx context.Context, accountID int64, now time.Time) (uint8, error) {
	account, err := u.subscriptionDg.GetAccount(ctx, accountID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get account")
	}
	return account.EffectiveTier(now), nil
}

// GrantTier overwrites the account tier and sets expiry to now + durationDays.
// A grant of a lower tier while a higher one is active still overwrites.
func (u *Usecase) GrantTier(ctx context.Context, accountID int64, tier uint8, durationDays int32, now time.Time) error {
	if tier > entity.MaxTier {
		return errors.Wrapf(errs.InvalidArgument, "tier must be at most %d", entity.MaxTier)
	}
	if durationDays < 1 || durationDays > 365 {
		return errors.Wrap(errs.InvalidArgument, "duration days must be in range 1-365")
	}
	if err := u.subscriptionDg.SetAccountTier(ctx, accountID, tier, now.AddDate(0, 0, int(durationDays))); err != nil {
		return errors.Wrap(err, "failed to set account tier")
	}
	return nil
}

// ListEligibleNodes returns active nodes usable by the account, ordered by
// tier ascending then id ascending.
func (u *Usecase) ListEligibleNodes(ctx context.Context, accountID int64, now time.Time) ([]*entity.Node, error) {
	account, err := u.subscriptionDg.GetAccount(ctx, accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	nodes, err := u.subscriptionDg.ListActiveNodesForTier(ctx, account.EffectiveTier(now))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list nodes")
	}
	return nodes, nil
}
