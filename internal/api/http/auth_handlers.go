package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/linkrank/internal/database"
	"github.com/vadimbarashkov/linkrank/internal/service"
	"github.com/vadimbarashkov/linkrank/pkg/response"
)

// handlePing handles health check requests to ensure the server is running.
func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// signUpRequest represents the request payload for registering an account.
type signUpRequest struct {
	Name            string `json:"name" validate:"required,max=60"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// signInRequest represents the request payload for signing in.
type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// tokenResponse carries the session token minted on successful sign-in.
type tokenResponse struct {
	Token string `json:"token"`
}

// handleSignUp handles POST requests to register a new account.
//
// Validation errors are collected across every field rather than
// failing fast. A duplicate email is reported as a conflict.
func handleSignUp(svc AuthService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleSignUp"

	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		if _, err := svc.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
			if errors.Is(err, database.ErrEmailExists) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.EmailTakenResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

// handleSignIn handles POST requests to authenticate and mint a session token.
//
// An unknown email and a wrong password both produce the same 401
// response, so accounts can't be enumerated.
func handleSignIn(svc AuthService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleSignIn"

	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		token, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, tokenResponse{Token: token})
	}
}
