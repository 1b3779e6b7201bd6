package adminapi

// apiError is the JSON error body returned by all admin API handlers.
type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func errorInvalidRequest(description string) apiError {
	return apiError{Error: "invalid_request", ErrorDescription: description}
}

func errorNotFound(description string) apiError {
	return apiError{Error: "not_found", ErrorDescription: description}
}

func errorConflict(description string) apiError {
	return apiError{Error: "conflict", ErrorDescription: description}
}

func errorUnauthorized(description string) apiError {
	return apiError{Error: "invalid_client", ErrorDescription: description}
}

func errorForbidden(description string) apiError {
	return apiError{Error: "insufficient_permissions", ErrorDescription: description}
}

func errorServerError(description string) apiError {
	return apiError{Error: "server_error", ErrorDescription: description}
}
