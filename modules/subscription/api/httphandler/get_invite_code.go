package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/samber/lo"
)

type getInviteCodeRequest struct {
	Code string `params:"code"`
}

func (r getInviteCodeRequest) Validate() error {
	var errList []error
	if r.Code == "" {
		errList = append(errList, errors.New("'code' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getInviteCodeResult struct {
	Code       string            `json:"code"`
	Visibility entity.Visibility `json:"visibility"`
}

type getInviteCodeResponse = HttpResponse[getInviteCodeResult]

func (h *HttpHandler) GetInviteCode(ctx *fiber.Ctx) (err error) {
	var req getInviteCodeRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	visibility, err := h.usecase.RedeemInvite(ctx.UserContext(), req.Code)
	if err != nil {
		return errors.Wrap(err, "error during RedeemInvite")
	}

	resp := getInviteCodeResponse{
		Result: &getInviteCodeResult{
			Code:       req.Code,
			Visibility: visibility,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type inviteCode struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}

type listPublicInviteCodesResult struct {
	List []inviteCode `json:"list"`
}

type listPublicInviteCodesResponse = HttpResponse[listPublicInviteCodesResult]

func (h *HttpHandler) ListPublicInviteCodes(ctx *fiber.Ctx) (err error) {
	codes, err := h.usecase.ListPublicInviteCodes(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during ListPublicInviteCodes")
	}

	resp := listPublicInviteCodesResponse{
		Result: &listPublicInviteCodesResult{
			List: lo.Map(codes, func(code *entity.InviteCode, _ int) inviteCode {
				return inviteCode{
					Code:      code.Code,
					CreatedAt: code.CreatedAt,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
