// Package response defines the JSON error envelope shared by all HTTP
// handlers, including the collected field-level validation errors
// produced by go-playground/validator.
package response

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const StatusError = "error"

// Response is the body returned for every failed request.
type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Details []validationError `json:"details,omitempty"`
}

var EmptyRequestBodyResponse = Response{
	Status:  StatusError,
	Message: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:  StatusError,
	Message: "Invalid request body.",
}

var UnauthorizedResponse = Response{
	Status:  StatusError,
	Message: "Missing or invalid credentials.",
}

var EmailTakenResponse = Response{
	Status:  StatusError,
	Message: "The email address is already taken.",
}

var ResourceNotFoundResponse = Response{
	Status:  StatusError,
	Message: "The requested resource was not found.",
}

var ServerErrorResponse = Response{
	Status:  StatusError,
	Message: "An internal server error occurred. Please try again later.",
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

// messageForTag returns a user-friendly message for the validation tag.
func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid url."
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", fe.Param())
	case "eqfield":
		return fmt.Sprintf("Must match the %s field.", fe.Param())
	default:
		return "Invalid value."
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field: e.Field(),
				Value: e.Value(),
				Issue: messageForTag(e),
			})
		}
	}

	return validationErrs
}

// ValidationErrorResponse builds a Response listing every violated field.
func ValidationErrorResponse(err error) Response {
	return Response{
		Status:  StatusError,
		Message: "Validation failed.",
		Details: getValidationErrors(err),
	}
}
