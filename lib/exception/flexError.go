package exception

import (
	"fmt"
)

// ResolutionError means a selector could not be mapped to an element.
type ResolutionError struct {
	*AppError
	SelectorID string
}

func NewResolutionError(selectorID string, cause error) *ResolutionError {
	return &ResolutionError{
		AppError: &AppError{
			Code:    "RESOLUTION_ERROR",
			Message: fmt.Sprintf("no element found for selector '%s'", selectorID),
			Cause:   cause,
		},
		SelectorID: selectorID,
	}
}

// ContentError means authoring input is missing or malformed.
type ContentError struct {
	*AppError
}

func NewContentError(message string) *ContentError {
	return &ContentError{
		AppError: &AppError{
			Code:    "CONTENT_ERROR",
			Message: message,
		},
	}
}

type HandlerNotFoundError struct {
	*AppError
	ChangeType  string
	ElementType string
	Layer       string
}

func NewHandlerNotFoundError(changeType, elementType, layer string) *HandlerNotFoundError {
	return &HandlerNotFoundError{
		AppError: &AppError{
			Code:    "HANDLER_NOT_FOUND",
			Message: fmt.Sprintf("no change handler for change type '%s' on '%s' in layer %s", changeType, elementType, layer),
		},
		ChangeType:  changeType,
		ElementType: elementType,
		Layer:       layer,
	}
}

type RevertDataMissingError struct {
	*AppError
	ChangeID string
}

func NewRevertDataMissingError(changeID string) *RevertDataMissingError {
	return &RevertDataMissingError{
		AppError: &AppError{
			Code:    "REVERT_DATA_MISSING",
			Message: fmt.Sprintf("change '%s' doesn't contain sufficient information to be reverted, most likely it didn't go through applyChange", changeID),
		},
		ChangeID: changeID,
	}
}

// ApplyError wraps a handler that reported failure or panicked.
type ApplyError struct {
	*AppError
	ChangeID string
}

func NewApplyError(changeID string, cause error) *ApplyError {
	return &ApplyError{
		AppError: &AppError{
			Code:    "APPLY_FAILED",
			Message: fmt.Sprintf("change '%s' could not be applied", changeID),
			Cause:   cause,
		},
		ChangeID: changeID,
	}
}

// ActivationError is returned for malformed variant activation requests. The
// message is shown to callers as is.
type ActivationError struct {
	*AppError
}

func NewActivationError(message string) *ActivationError {
	return &ActivationError{
		AppError: &AppError{
			Code:    "ACTIVATION_ERROR",
			Message: message,
		},
	}
}

type NotFoundError struct {
	*AppError
	ID string
}

func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Code:    "NOT_FOUND",
			Message: fmt.Sprintf("%s with id '%s' does not exist", kind, id),
		},
		ID: id,
	}
}
