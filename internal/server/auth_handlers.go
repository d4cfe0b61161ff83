package server

import (
	"errors"

	"gamerhub/internal/models"
	"gamerhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	resp, err := s.authService.Signup(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	resp, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		if models.HasCode(err, models.CodeUnauthorized) {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return fail(c, err)
	}
	return c.JSON(resp)
}

// GoogleLogin handles POST /api/auth/google
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	var req models.GoogleLoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	resp, err := s.authService.GoogleLogin(c.UserContext(), req)
	switch {
	case errors.Is(err, service.ErrGoogleLoginDisabled):
		return models.RespondWithError(c, fiber.StatusNotImplemented,
			&models.AppError{Code: "NOT_IMPLEMENTED", Message: "Google login is not configured"})
	case models.HasCode(err, models.CodeUnauthorized):
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	case err != nil:
		return fail(c, err)
	}
	return c.JSON(resp)
}

// GetProfile handles GET /api/users/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}
