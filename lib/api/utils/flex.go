package utils

import (
	"errors"

	apiErrors "github.com/ether/uiflex-go/lib/api/errors"
	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors to the HTTP status and body returned for them.
func StatusFor(err error) (int, apiErrors.Error) {
	var (
		activationErr *exception.ActivationError
		contentErr    *exception.ContentError
		notFoundErr   *exception.NotFoundError
		handlerErr    *exception.HandlerNotFoundError
		resolutionErr *exception.ResolutionError
		databaseErr   *exception.DatabaseError
	)
	switch {
	case errors.Is(err, flex.ErrInvalidReference):
		return fiber.StatusBadRequest, apiErrors.InvalidReferenceError
	case errors.As(err, &activationErr):
		return fiber.StatusBadRequest, apiErrors.NewBadRequestError(activationErr.Message)
	case errors.As(err, &contentErr):
		return fiber.StatusBadRequest, apiErrors.NewBadRequestError(contentErr.Message)
	case errors.As(err, &handlerErr):
		return fiber.StatusUnprocessableEntity, apiErrors.HandlerNotFoundError
	case errors.As(err, &resolutionErr):
		return fiber.StatusNotFound, apiErrors.TargetNotFoundError
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound, apiErrors.NewNotFoundError(notFoundErr.Message)
	case errors.Is(err, db.ErrChangeNotFound):
		return fiber.StatusNotFound, apiErrors.ChangeNotFoundError
	case errors.As(err, &databaseErr):
		return fiber.StatusServiceUnavailable, apiErrors.DatabaseUnavailableError
	}
	return fiber.StatusInternalServerError, apiErrors.InternalServerError
}

// SendError writes the mapped error response.
func SendError(c *fiber.Ctx, err error) error {
	status, body := StatusFor(err)
	return c.Status(status).JSON(body)
}

// ValidationFailed answers a request whose body did not pass validation.
func ValidationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(apiErrors.Error{
		Message: apiErrors.ValidationError.Message + ": " + err.Error(),
		Error:   apiErrors.ValidationError.Error,
	})
}
