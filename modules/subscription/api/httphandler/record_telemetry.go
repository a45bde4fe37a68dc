package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
)

type recordLoadSampleRequest struct {
	NodeID    int64     `params:"id"`
	Uptime    float64   `json:"uptime"`
	Load      string    `json:"load"`
	SampledAt time.Time `json:"sampledAt"`
}

func (r recordLoadSampleRequest) Validate() error {
	var errList []error
	if r.NodeID <= 0 {
		errList = append(errList, errors.New("'id' must be a positive integer"))
	}
	if r.Load == "" {
		errList = append(errList, errors.New("'load' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

// RecordLoadSample accepts a node load push. Fire-and-forget: answers 202
// even when the sample is dropped for an unknown node.
func (h *HttpHandler) RecordLoadSample(ctx *fiber.Ctx) (err error) {
	var req recordLoadSampleRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	sample := &entity.NodeLoadSample{
		NodeID:    req.NodeID,
		Uptime:    req.Uptime,
		Load:      req.Load,
		SampledAt: req.SampledAt,
	}
	if sample.SampledAt.IsZero() {
		sample.SampledAt = time.Now().UTC()
	}
	if err := h.usecase.RecordLoadSample(ctx.UserContext(), sample); err != nil {
		return errors.Wrap(err, "error during RecordLoadSample")
	}
	return errors.WithStack(ctx.SendStatus(fiber.StatusAccepted))
}

type recordOnlineSampleRequest struct {
	NodeID      int64     `params:"id"`
	OnlineCount int32     `json:"onlineCount"`
	SampledAt   time.Time `json:"sampledAt"`
}

func (r recordOnlineSampleRequest) Validate() error {
	var errList []error
	if r.NodeID <= 0 {
		errList = append(errList, errors.New("'id' must be a positive integer"))
	}
	if r.OnlineCount < 0 {
		errList = append(errList, errors.New("'onlineCount' must not be negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) RecordOnlineSample(ctx *fiber.Ctx) (err error) {
	var req recordOnlineSampleRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	sample := &entity.NodeOnlineSample{
		NodeID:      req.NodeID,
		OnlineCount: req.OnlineCount,
		SampledAt:   req.SampledAt,
	}
	if sample.SampledAt.IsZero() {
		sample.SampledAt = time.Now().UTC()
	}
	if err := h.usecase.RecordOnlineSample(ctx.UserContext(), sample); err != nil {
		return errors.Wrap(err, "error during RecordOnlineSample")
	}
	return errors.WithStack(ctx.SendStatus(fiber.StatusAccepted))
}

type recordOnlineIPRequest struct {
	NodeID    int64  `params:"id"`
	AccountID int64  `json:"accountId"`
	IP        string `json:"ip"`
	Location  string `json:"location"`
}

func (r recordOnlineIPRequest) Validate() error {
	var errList []error
	if r.NodeID <= 0 {
		errList = append(errList, errors.New("'id' must be a positive integer"))
	}
	if r.AccountID <= 0 {
		errList = append(errList, errors.New("'accountId' must be a positive integer"))
	}
	if r.IP == "" {
		errList = append(errList, errors.New("'ip' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) RecordOnlineIP(ctx *fiber.Ctx) (err error) {
	var req recordOnlineIPRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	record := &entity.OnlineIPRecord{
		NodeID:     req.NodeID,
		AccountID:  req.AccountID,
		IP:         req.IP,
		Location:   req.Location,
		RecordedAt: time.Now().UTC(),
	}
	if err := h.usecase.RecordOnlineIP(ctx.UserContext(), record); err != nil {
		return errors.Wrap(err, "error during RecordOnlineIP")
	}
	return errors.WithStack(ctx.SendStatus(fiber.StatusAccepted))
}
