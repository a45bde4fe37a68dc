package subscription

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/nebulanet/panel/modules/subscription/usecase"
	"github.com/shopspring/decimal"
)

// Operator-facing mint helpers for the cli. They return bare code strings so
// callers outside the module don't touch entity types.

func MintInviteCodes(ctx context.Context, u *usecase.Usecase, count int, public bool, now time.Time) ([]string, error) {
	visibility := entity.VisibilityPrivate
	if public {
		visibility = entity.VisibilityPublic
	}
	codes, err := u.MintInviteCodes(ctx, count, visibility, now)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	minted := make([]string, 0, len(codes))
	for _, code := range codes {
		minted = append(minted, code.Code)
	}
	return minted, nil
}

func MintRechargeCodes(ctx context.Context, u *usecase.Usecase, count int, amount decimal.Decimal, ownerHint string, now time.Time) ([]string, error) {
	codes, err := u.MintRechargeCodes(ctx, count, amount, ownerHint, now)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	minted := make([]string, 0, len(codes))
	for _, code := range codes {
		minted = append(minted, code.Code)
	}
	return minted, nil
}
