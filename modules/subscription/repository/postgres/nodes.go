package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
)

func (r *Repository) GetNode(ctx context.Context, id int64) (*entity.Node, error) {
	var model nodeModel
	err := r.queryable().QueryRow(ctx, `
		SELECT id, name, address, method, protocol, obfs, custom_method, info, traffic_rate, tier, status
		FROM nodes WHERE id = $1
	`, id).Scan(&model.ID, &model.Name, &model.Address, &model.Method, &model.Protocol, &model.Obfs, &model.CustomMethod, &model.Info, &model.TrafficRate, &model.Tier, &model.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return mapNodeModelToType(model), nil
}

func (r *Repository) ListActiveNodesForTier(ctx context.Context, maxTier uint8) ([]*entity.Node, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, name, address, method, protocol, obfs, custom_method, info, traffic_rate, tier, status
		FROM nodes
		WHERE status = $1 AND tier <= $2
		ORDER BY tier ASC, id ASC
	`, entity.NodeStatusActive.String(), int16(maxTier))
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	nodes := make([]*entity.Node, 0)
	for rows.Next() {
		var model nodeModel
		if err := rows.Scan(&model.ID, &model.Name, &model.Address, &model.Method, &model.Protocol, &model.Obfs, &model.CustomMethod, &model.Info, &model.TrafficRate, &model.Tier, &model.Status); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		nodes = append(nodes, mapNodeModelToType(model))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return nodes, nil
}

func (r *Repository) CreateNode(ctx context.Context, node *entity.Node) (int64, error) {
	var id int64
	err := r.queryable().QueryRow(ctx, `
		INSERT INTO nodes (name, address, method, protocol, obfs, custom_method, info, traffic_rate, tier, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, node.Name, node.Address, node.Method, node.Protocol, node.Obfs, node.CustomMethod, node.Info, node.TrafficRate, int16(node.Tier), node.Status.String()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errors.WithStack(errs.Duplicate)
		}
		return 0, errors.Wrap(err, "error during exec")
	}
	return id, nil
}

func (r *Repository) CreateNodeLoadSample(ctx context.Context, sample *entity.NodeLoadSample) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO node_load_samples (node_id, uptime, load, sampled_at)
		VALUES ($1, $2, $3, $4)
	`, sample.NodeID, sample.Uptime, sample.Load, timestamptzFromTime(sample.SampledAt)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateNodeOnlineSample(ctx context.Context, sample *entity.NodeOnlineSample) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO node_online_samples (node_id, online_count, sampled_at)
		VALUES ($1, $2, $3)
	`, sample.NodeID, sample.OnlineCount, timestamptzFromTime(sample.SampledAt)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateOnlineIPRecord(ctx context.Context, record *entity.OnlineIPRecord) error {
	if _, err := r.queryable().Exec(ctx, `
		INSERT INTO online_ip_records (node_id, account_id, ip, location, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`, record.NodeID, record.AccountID, record.IP, record.Location, timestamptzFromTime(record.RecordedAt)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
