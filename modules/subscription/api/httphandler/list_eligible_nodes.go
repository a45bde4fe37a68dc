package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/samber/lo"
)

type listEligibleNodesRequest struct {
	AccountID int64 `params:"accountId"`
}

func (r listEligibleNodesRequest) Validate() error {
	var errList []error
	if r.AccountID <= 0 {
		errList = append(errList, errors.New("'accountId' must be a positive integer"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type eligibleNode struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Method       string  `json:"method"`
	Protocol     string  `json:"protocol"`
	Obfs         string  `json:"obfs"`
	CustomMethod bool    `json:"customMethod"`
	TrafficRate  float64 `json:"trafficRate"`
	Tier         uint8   `json:"tier"`
}

type listEligibleNodesResult struct {
	List []eligibleNode `json:"list"`
}

type listEligibleNodesResponse = HttpResponse[listEligibleNodesResult]

// ListEligibleNodes answers the client-configuration generator: active nodes
// the account may use, ordered by tier ascending then id ascending.
func (h *HttpHandler) ListEligibleNodes(ctx *fiber.Ctx) (err error) {
	var req listEligibleNodesRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	nodes, err := h.usecase.ListEligibleNodes(ctx.UserContext(), req.AccountID, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "error during ListEligibleNodes")
	}

	resp := listEligibleNodesResponse{
		Result: &listEligibleNodesResult{
			List: lo.Map(nodes, func(node *entity.Node, _ int) eligibleNode {
				return eligibleNode{
					ID:           node.ID,
					Name:         node.Name,
					Address:      node.Address,
					Method:       node.Method,
					Protocol:     node.Protocol,
					Obfs:         node.Obfs,
					CustomMethod: node.CustomMethod,
					TrafficRate:  node.TrafficRate,
					Tier:         node.Tier,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
