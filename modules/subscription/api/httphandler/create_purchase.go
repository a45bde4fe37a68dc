package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/shopspring/decimal"
)

type createPurchaseRequest struct {
	AccountID int64 `json:"accountId"`
	ProductID int64 `json:"productId"`
}

func (r createPurchaseRequest) Validate() error {
	var errList []error
	if r.AccountID <= 0 {
		errList = append(errList, errors.New("'accountId' must be a positive integer"))
	}
	if r.ProductID <= 0 {
		errList = append(errList, errors.New("'productId' must be a positive integer"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type createPurchaseResult struct {
	PurchaseID  int64           `json:"purchaseId"`
	NewBalance  decimal.Decimal `json:"newBalance"`
	PurchasedAt time.Time       `json:"purchasedAt"`
}

type createPurchaseResponse = HttpResponse[createPurchaseResult]

func (h *HttpHandler) CreatePurchase(ctx *fiber.Ctx) (err error) {
	var req createPurchaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.usecase.Purchase(ctx.UserContext(), req.AccountID, req.ProductID, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "error during Purchase")
	}

	resp := createPurchaseResponse{
		Result: &createPurchaseResult{
			PurchaseID:  result.Record.ID,
			NewBalance:  result.NewBalance,
			PurchasedAt: result.Record.PurchasedAt,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
