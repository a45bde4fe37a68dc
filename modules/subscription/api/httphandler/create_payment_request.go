package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/shopspring/decimal"
)

type createPaymentRequestRequest struct {
	AccountID int64           `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r createPaymentRequestRequest) Validate() error {
	var errList []error
	if r.AccountID <= 0 {
		errList = append(errList, errors.New("'accountId' must be a positive integer"))
	}
	if !r.Amount.IsPositive() {
		errList = append(errList, errors.New("'amount' must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type createPaymentRequestResult struct {
	GatewayReference string          `json:"gatewayReference"`
	Amount           decimal.Decimal `json:"amount"`
	RequestedAt      time.Time       `json:"requestedAt"`
}

type createPaymentRequestResponse = HttpResponse[createPaymentRequestResult]

func (h *HttpHandler) CreatePaymentRequest(ctx *fiber.Ctx) (err error) {
	var req createPaymentRequestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	request, err := h.usecase.RequestPayment(ctx.UserContext(), req.AccountID, req.Amount, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "error during RequestPayment")
	}

	resp := createPaymentRequestResponse{
		Result: &createPaymentRequestResult{
			GatewayReference: request.GatewayRef,
			Amount:           request.Amount,
			RequestedAt:      request.RequestedAt,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
