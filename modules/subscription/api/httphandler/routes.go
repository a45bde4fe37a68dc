package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1")

	r.Post("/codes/recharge/redeem", h.RedeemRechargeCode)
	r.Get("/codes/invite/:code", h.GetInviteCode)
	r.Get("/codes/invite", h.ListPublicInviteCodes)
	r.Post("/purchases", h.CreatePurchase)
	r.Get("/shop/products", h.ListProducts)
	r.Post("/payments/requests", h.CreatePaymentRequest)
	r.Post("/payments/confirmations", h.ConfirmPayment)
	r.Post("/nodes/:id/telemetry/load", h.RecordLoadSample)
	r.Post("/nodes/:id/telemetry/online", h.RecordOnlineSample)
	r.Post("/nodes/:id/telemetry/ips", h.RecordOnlineIP)
	r.Get("/nodes/eligible/:accountId", h.ListEligibleNodes)
	r.Post("/donations", h.CreateDonation)
	return nil
}
