package apiclient

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"gamerhub/internal/models"
)

// Login exchanges email credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	email, err := validateEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if password == "" {
		return models.User{}, models.NewValidationError("Password is required")
	}
	return c.authenticate(ctx, "/api/auth/login", models.LoginRequest{Email: email, Password: password})
}

// Signup registers an account and signs it in. confirm must equal password.
func (c *Client) Signup(ctx context.Context, email, password, confirm, name string) (models.User, error) {
	email, err := validateEmail(email)
	if err != nil {
		return models.User{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, models.NewValidationError("Name is required")
	}
	if len(password) < 6 {
		return models.User{}, models.NewValidationError("Password must be at least 6 characters")
	}
	if password != confirm {
		return models.User{}, models.NewValidationError("Passwords do not match")
	}
	return c.authenticate(ctx, "/api/auth/signup", models.SignupRequest{Email: email, Password: password, Name: name})
}

// GoogleLogin signs in with a Google ID token.
func (c *Client) GoogleLogin(ctx context.Context, credential string) (models.User, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return models.User{}, models.NewValidationError("Google credential is required")
	}
	return c.authenticate(ctx, "/api/auth/google", models.GoogleLoginRequest{Credential: credential})
}

// Logout forgets the session. The backend keeps no server-side session state.
func (c *Client) Logout(ctx context.Context) error {
	if c.creds == nil {
		return nil
	}
	return c.creds.Logout(ctx)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (models.User, error) {
	var raw wireAuth
	if err := c.do(ctx, call{method: http.MethodPost, path: path, route: path, body: body, out: &raw}); err != nil {
		return models.User{}, err
	}
	if raw.Token == "" {
		return models.User{}, &HTTPError{Method: http.MethodPost, Path: path, Status: http.StatusOK, Message: "response carried no token"}
	}
	user := raw.user()
	if c.creds != nil {
		if err := c.creds.Establish(ctx, raw.Token, user); err != nil {
			return models.User{}, err
		}
	}
	return user, nil
}

// Profile fetches the signed-in user.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var raw wireUser
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/users/profile", route: "/api/users/profile", out: &raw}); err != nil {
		return models.User{}, err
	}
	return normalizeUser(&raw), nil
}

func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", models.NewValidationError("Invalid email address")
	}
	return email, nil
}
