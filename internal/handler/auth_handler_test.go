package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/handler"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/service"
)

type mockAuthService struct {
	registerErr error
	loginErr    error
	changeErr   error
	lastActor   service.Actor
}

func (m *mockAuthService) Register(_ context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	if m.registerErr != nil {
		return dto.AuthResponse{}, m.registerErr
	}
	return dto.AuthResponse{Token: "token", User: dto.UserResponse{ID: 1, Role: "student", USN: req.USN}}, nil
}

func (m *mockAuthService) Login(_ context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if m.loginErr != nil {
		return dto.AuthResponse{}, m.loginErr
	}
	return dto.AuthResponse{Token: "token", User: dto.UserResponse{ID: 1, Role: "admin", Username: req.Username}}, nil
}

func (m *mockAuthService) Me(_ context.Context, actor service.Actor) (dto.UserResponse, error) {
	m.lastActor = actor
	return dto.UserResponse{ID: actor.ID, Role: actor.Role}, nil
}

func (m *mockAuthService) ChangePassword(_ context.Context, actor service.Actor, _ dto.ChangePasswordRequest) error {
	m.lastActor = actor
	return m.changeErr
}

func (m *mockAuthService) EnsureAdmin(context.Context, service.AdminSeed) (bool, error) {
	return false, nil
}

func TestAuthHandlerRegister(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
		code       string
	}{
		{name: "created", statusCode: fiber.StatusCreated},
		{name: "duplicate", err: placement.ErrDuplicateIdentifier, statusCode: fiber.StatusConflict, code: "DUPLICATE_IDENTIFIER"},
		{name: "mismatch", err: placement.ErrEmailMismatch, statusCode: fiber.StatusBadRequest, code: "EMAIL_MISMATCH"},
		{name: "validator", err: validator.ValidationErrors{}, statusCode: fiber.StatusBadRequest, code: "INVALID_FORMAT"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			handler.NewAuthHandler(&mockAuthService{registerErr: tc.err}, nil, discardLogger()).Register(app.Group("/api/v1/auth"), nil)

			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
				"usn":      "1MS22CS154",
				"email":    "1ms22cs154@college.edu",
				"password": "secret123",
			}))
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)

			var body envelope
			decodeResponse(t, resp, &body)
			require.Equal(t, tc.code, body.Details.Code)
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	app := fiber.New()
	handler.NewAuthHandler(&mockAuthService{}, nil, discardLogger()).Register(app.Group("/api/v1/auth"), nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "secret"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope
	decodeResponse(t, resp, &body)
	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(body.Data, &auth))
	require.Equal(t, "token", auth.Token)
	require.Equal(t, "admin", auth.User.Role)

	failing := fiber.New()
	handler.NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, nil, discardLogger()).Register(failing.Group("/api/v1/auth"), nil)
	resp, err = failing.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "1MS22CS154", "password": "wrong"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandlerProtectedRoutes(t *testing.T) {
	svc := &mockAuthService{}

	anonymous := fiber.New()
	handler.NewAuthHandler(svc, nil, discardLogger()).Register(anonymous.Group("/api/v1/auth"), nil)
	resp, err := anonymous.Test(jsonRequest(t, http.MethodGet, "/api/v1/auth/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	app := fiber.New()
	handler.NewAuthHandler(svc, nil, discardLogger()).Register(app.Group("/api/v1/auth", withUser(9, "student")), nil)
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/auth/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(9), svc.lastActor.ID)

	svc.changeErr = service.ErrPasswordMismatch
	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/v1/auth/change-password", map[string]string{
		"current_password": "wrong",
		"new_password":     "secret456",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
