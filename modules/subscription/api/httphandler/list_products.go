package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type product struct {
	ID               int64           `json:"id"`
	Description      string          `json:"description"`
	TrafficBytes     int64           `json:"trafficBytes"`
	Price            decimal.Decimal `json:"price"`
	TierGrant        uint8           `json:"tierGrant"`
	TierDurationDays int32           `json:"tierDurationDays"`
}

type listProductsResult struct {
	List []product `json:"list"`
}

type listProductsResponse = HttpResponse[listProductsResult]

func (h *HttpHandler) ListProducts(ctx *fiber.Ctx) (err error) {
	products, err := h.usecase.ListProducts(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during ListProducts")
	}

	resp := listProductsResponse{
		Result: &listProductsResult{
			List: lo.Map(products, func(p *entity.Product, _ int) product {
				return product{
					ID:               p.ID,
					Description:      p.Description,
					TrafficBytes:     p.TrafficBytes,
					Price:            p.Price,
					TierGrant:        p.TierGrant,
					TierDurationDays: p.TierDurationDays,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
