package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/shopspring/decimal"
)

type redeemRechargeCodeRequest struct {
	Code      string `json:"code"`
	AccountID int64  `json:"accountId"`
}

func (r redeemRechargeCodeRequest) Validate() error {
	var errList []error
	if r.Code == "" {
		errList = append(errList, errors.New("'code' is required"))
	}
	if r.AccountID <= 0 {
		errList = append(errList, errors.New("'accountId' must be a positive integer"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type redeemRechargeCodeResult struct {
	Amount     decimal.Decimal `json:"amount"`
	RedeemedAt time.Time       `json:"redeemedAt"`
}

type redeemRechargeCodeResponse = HttpResponse[redeemRechargeCodeResult]

func (h *HttpHandler) RedeemRechargeCode(ctx *fiber.Ctx) (err error) {
	var req redeemRechargeCodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	amount, err := h.usecase.RedeemRecharge(ctx.UserContext(), req.Code, req.AccountID)
	if err != nil {
		return errors.Wrap(err, "error during RedeemRecharge")
	}

	resp := redeemRechargeCodeResponse{
		Result: &redeemRechargeCodeResult{
			Amount:     amount,
			RedeemedAt: time.Now().UTC(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
