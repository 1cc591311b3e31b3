package utils

import (
	"errors"
	"fmt"
	"testing"

	apiErrors "github.com/ether/uiflex-go/lib/api/errors"
	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   apiErrors.Error
	}{
		{"invalid reference", fmt.Errorf("load: %w", flex.ErrInvalidReference), fiber.StatusBadRequest, apiErrors.InvalidReferenceError},
		{"activation", exception.NewActivationError("bad combination"), fiber.StatusBadRequest, apiErrors.NewBadRequestError("bad combination")},
		{"content", exception.NewContentError("no text"), fiber.StatusBadRequest, apiErrors.NewBadRequestError("no text")},
		{"handler", exception.NewHandlerNotFoundError("rename", "sap.m.Input", "USER"), fiber.StatusUnprocessableEntity, apiErrors.HandlerNotFoundError},
		{"resolution", exception.NewResolutionError("view--x", nil), fiber.StatusNotFound, apiErrors.TargetNotFoundError},
		{"change not found", db.ErrChangeNotFound, fiber.StatusNotFound, apiErrors.ChangeNotFoundError},
		{"database", exception.NewDatabaseError("error loading changes", errors.New("connection refused")), fiber.StatusServiceUnavailable, apiErrors.DatabaseUnavailableError},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, apiErrors.InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := StatusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
