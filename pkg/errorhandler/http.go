package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/pkg/logger"
	"github.com/nebulanet/panel/pkg/logger/slogx"
)

// statusFromKind maps domain error kinds to HTTP statuses. AlreadyConsumed and
// Duplicate are expected concurrency outcomes, reported as conflicts.
func statusFromKind(err error) (int, bool) {
	switch {
	case errors.Is(err, errs.NotFound):
		return http.StatusNotFound, true
	case errors.Is(err, errs.InvalidArgument):
		return http.StatusBadRequest, true
	case errors.Is(err, errs.AlreadyConsumed), errors.Is(err, errs.Duplicate):
		return http.StatusConflict, true
	case errors.Is(err, errs.InsufficientBalance):
		return http.StatusUnprocessableEntity, true
	}
	return 0, false
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if status, ok := statusFromKind(err); ok {
			message := err.Error()
			if e := new(errs.PublicError); errors.As(err, &e) {
				message = e.Message()
			}
			return errors.WithStack(ctx.Status(status).JSON(map[string]any{
				"error": message,
			}))
		}
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(map[string]any{
				"error": e.Message(),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).SendString(e.Error()))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error",
			slogx.String("event", "api_unhandled_error"),
			slogx.Error(err),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(map[string]any{
			"error": "Internal Server Error",
		}))
	}
}
