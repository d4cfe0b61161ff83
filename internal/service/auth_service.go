package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"gamerhub/internal/models"
	"gamerhub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "gamerhub-api"
	tokenAudience = "gamerhub-client"
	tokenTTL      = 7 * 24 * time.Hour
	minPassword   = 6
)

// ErrGoogleLoginDisabled is returned by GoogleLogin when no verifier is configured.
var ErrGoogleLoginDisabled = errors.New("google login is not configured")

// GoogleIdentity is the verified content of a Google ID token.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// CredentialVerifier checks a Google ID token credential.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	secret   []byte
	verifier CredentialVerifier
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, secret string, verifier CredentialVerifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		verifier: verifier,
		now:      time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if len(req.Password) < minPassword {
		return nil, models.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPassword))
	}
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !models.HasCode(err, models.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already in use")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if user.Password == "" {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.respond(user)
}

// GoogleLogin signs in with a Google credential, linking or creating the
// account by email.
func (s *AuthService) GoogleLogin(ctx context.Context, req models.GoogleLoginRequest) (*models.AuthResponse, error) {
	if s.verifier == nil {
		return nil, ErrGoogleLoginDisabled
	}
	if strings.TrimSpace(req.Credential) == "" {
		return nil, models.NewValidationError("Credential is required")
	}
	identity, err := s.verifier.Verify(ctx, req.Credential)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid ID token")
	}

	user, err := s.userRepo.GetByGoogleID(ctx, identity.Subject)
	if err == nil {
		return s.respond(user)
	}
	if !models.HasCode(err, models.CodeNotFound) {
		return nil, err
	}

	user, err = s.userRepo.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		user.GoogleID = identity.Subject
		if user.Picture == "" {
			user.Picture = identity.Picture
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	case models.HasCode(err, models.CodeNotFound):
		user = &models.User{
			Name:     identity.Name,
			Email:    identity.Email,
			Picture:  identity.Picture,
			GoogleID: identity.Subject,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.respond(user)
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.IssueToken(user.ID, user.Name)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &models.AuthResponse{
		Token:      token,
		Email:      user.Email,
		Name:       user.Name,
		PictureURL: user.Picture,
		User:       user,
	}, nil
}

// IssueToken creates a JWT for the given user.
func (s *AuthService) IssueToken(userID uint, name string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"name": name,
		"iss":  tokenIssuer,
		"aud":  tokenAudience,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates tokenString and returns its user id.
func (s *AuthService) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}
	return uint(userID), nil
}
