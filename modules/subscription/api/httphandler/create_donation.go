package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/shopspring/decimal"
)

type createDonationRequest struct {
	AccountID int64           `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r createDonationRequest) Validate() error {
	var errList []error
	if r.AccountID <= 0 {
		errList = append(errList, errors.New("'accountId' must be a positive integer"))
	}
	if !r.Amount.IsPositive() {
		errList = append(errList, errors.New("'amount' must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type createDonationResult struct {
	DonatedAt time.Time `json:"donatedAt"`
}

type createDonationResponse = HttpResponse[createDonationResult]

func (h *HttpHandler) CreateDonation(ctx *fiber.Ctx) (err error) {
	var req createDonationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	now := time.Now().UTC()
	if err := h.usecase.RecordDonation(ctx.UserContext(), req.AccountID, req.Amount, now); err != nil {
		return errors.Wrap(err, "error during RecordDonation")
	}

	resp := createDonationResponse{
		Result: &createDonationResult{
			DonatedAt: now,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
