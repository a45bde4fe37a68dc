package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/nebulanet/panel/pkg/logger"
	"github.com/nebulanet/panel/pkg/logger/slogx"
)

// knownNode reports whether the node exists. Telemetry from unknown nodes is
// logged and dropped, never fatal to the push.
func (u *Usecase) knownNode(ctx context.Context, nodeID int64) (bool, error) {
	_, err := u.subscriptionDg.GetNode(ctx, nodeID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			logger.WarnContext(ctx, "dropping telemetry from unknown node", slogx.Int64("nodeId", nodeID))
			return false, nil
		}
		return false, errors.Wrap(err, "failed to get node")
	}
	return true, nil
}

func (u *Usecase) RecordLoadSample(ctx context.Context, sample *entity.NodeLoadSample) error {
	known, err := u.knownNode(ctx, sample.NodeID)
	if err != nil || !known {
		return err
	}
	if err := u.subscriptionDg.CreateNodeLoadSample(ctx, sample); err != nil {
		return errors.Wrap(err, "failed to create load sample")
	}
	return nil
}

func (u *Usecase) RecordOnlineSample(ctx context.Context, sample *entity.NodeOnlineSample) error {
	known, err := u.knownNode(ctx, sample.NodeID)
	if err != nil || !known {
		return err
	}
	if err := u.subscriptionDg.CreateNodeOnlineSample(ctx, sample); err != nil {
		return errors.Wrap(err, "failed to create online sample")
	}
	return nil
}

func (u *Usecase) RecordOnlineIP(ctx context.Context, record *entity.OnlineIPRecord) error {
	known, err := u.knownNode(ctx, record.NodeID)
	if err != nil || !known {
		return err
	}
	if err := u.subscriptionDg.CreateOnlineIPRecord(ctx, record); err != nil {
		return errors.Wrap(err, "failed to create online ip record")
	}
	return nil
}
