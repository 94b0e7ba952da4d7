// internal/services/auth_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/stylelens/catalogue-backend/internal/config"
)

// AuthService proxies signup, login and token verification to Supabase
// Auth (GoTrue). No credentials are stored locally.
type AuthService struct {
	client gotrue.Client
}

type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewAuthService(cfg *config.Config) *AuthService {
	client := gotrue.New("", cfg.Supabase.AnonKey).
		WithCustomGoTrueURL(strings.TrimRight(cfg.Supabase.URL, "/") + "/auth/v1")

	return &AuthService{client: client}
}

func (s *AuthService) SignUp(req *SignUpRequest) (*types.SignupResponse, error) {
	data := map[string]interface{}{}
	if req.FullName != "" {
		data["full_name"] = req.FullName
	}
	if req.AvatarURL != "" {
		data["avatar_url"] = req.AvatarURL
	}

	resp, err := s.client.Signup(types.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Data:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return resp, nil
}

func (s *AuthService) Login(req *LoginRequest) (*types.TokenResponse, error) {
	session, err := s.client.SignInWithEmailPassword(req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return session, nil
}

// VerifyToken resolves a bearer token to its user via GoTrue. Used by the
// auth middleware when no local JWT secret is configured.
func (s *AuthService) VerifyToken(token string) (*types.UserResponse, error) {
	user, err := s.client.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", err)
	}
	return user, nil
}
