package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/usecase"
	"github.com/shopspring/decimal"
)

type confirmPaymentRequest struct {
	GatewayReference string          `json:"gatewayReference"`
	Amount           decimal.Decimal `json:"amount"`
}

func (r confirmPaymentRequest) Validate() error {
	var errList []error
	if r.GatewayReference == "" {
		errList = append(errList, errors.New("'gatewayReference' is required"))
	}
	if !r.Amount.IsPositive() {
		errList = append(errList, errors.New("'amount' must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type confirmPaymentResult struct {
	Status usecase.ConfirmationStatus `json:"status"`
}

type confirmPaymentResponse = HttpResponse[confirmPaymentResult]

// ConfirmPayment is the gateway webhook entry point. It is idempotent:
// repeated confirmations of the same reference answer 200 with status
// duplicate and mutate nothing.
func (h *HttpHandler) ConfirmPayment(ctx *fiber.Ctx) (err error) {
	var req confirmPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	status, err := h.usecase.ConfirmGatewayPayment(ctx.UserContext(), req.GatewayReference, req.Amount, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "error during ConfirmGatewayPayment")
	}

	resp := confirmPaymentResponse{
		Result: &confirmPaymentResult{
			Status: status,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
