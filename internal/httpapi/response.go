package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ablejobs/matchcore/internal/store"
)

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Meta    any    `json:"meta,omitempty"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
}

func respond(c *fiber.Ctx, message string, data, meta any) error {
	return c.Status(fiber.StatusOK).JSON(successResponse{
		Success: true,
		Message: message,
		Meta:    meta,
		Data:    data,
	})
}

// errorHandler renders every handler error in the same envelope. Store misses become 404,
// fiber errors keep their code, anything else is a 500.
func errorHandler(verbose bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		switch {
		case errors.Is(err, store.ErrNotFound):
			code = fiber.StatusNotFound
			message = "not found"
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		}

		resp := errorResponse{Message: message}
		if verbose && message != err.Error() {
			resp.DevMessage = err.Error()
		}
		return c.Status(code).JSON(resp)
	}
}
