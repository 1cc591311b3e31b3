package errors

var InternalApiError = Error{
	Message: "Internal API Error",
	Error:   1,
}

var InvalidRequestError = Error{
	Message: "Invalid request",
	Error:   400,
}

func NewInvalidParamError(paramName string) Error {
	return Error{
		Message: "Invalid parameter: " + paramName,
		Error:   400,
	}
}

func NewMissingParamError(paramName string) Error {
	return Error{
		Message: "Missing parameter: " + paramName,
		Error:   400,
	}
}

func NewBadRequestError(message string) Error {
	return Error{
		Message: message,
		Error:   400,
	}
}

func NewNotFoundError(message string) Error {
	return Error{
		Message: message,
		Error:   404,
	}
}

var InvalidReferenceError = Error{
	Message: "Invalid reference",
	Error:   400,
}

var InvalidViewError = Error{
	Message: "Invalid XML view",
	Error:   400,
}

var ChangeNotFoundError = Error{
	Message: "Change not found",
	Error:   404,
}

var TargetNotFoundError = Error{
	Message: "Target control not found in view",
	Error:   404,
}

var HandlerNotFoundError = Error{
	Message: "No change handler registered for change type and control",
	Error:   422,
}

var InternalServerError = Error{
	Message: "Internal server error",
	Error:   500,
}

var DataRetrievalError = Error{
	Message: "Failed to retrieve data",
	Error:   500,
}

var ValidationError = Error{
	Message: "Validation failed",
	Error:   422,
}

var DatabaseUnavailableError = Error{
	Message: "Database unavailable",
	Error:   503,
}
