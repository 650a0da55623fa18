package api

import (
	"net/http"
	"time"

	"github.com/cortexapp/cortex-server/internal/domain"
	"github.com/cortexapp/cortex-server/internal/http/response"
)

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Password        string `json:"password" validate:"required,min=8,max=1024"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=20"`
	Password string `json:"password" validate:"required,max=1024"`
}

// UserResponse is the public projection of an account.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// handleSignup creates a new account.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.authService.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "account created", toUserResponse(user), s.logger)
}

// handleLogin verifies credentials, sets the auth cookie and returns
// the account.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, token, err := s.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.setAuthCookie(w, token)

	response.Success(w, "logged in", map[string]any{
		"user":  toUserResponse(user),
		"token": token,
	}, s.logger)
}

// handleLogout clears the auth cookie.
// The PASETO itself stays valid until expiry; logout is a client-side
// credential drop.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.clearAuthCookie(w)
	response.Success(w, "logged out", nil, s.logger)
}

// handleAuthCheck reports the authenticated identity.
func (s *Server) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.authService.GetUser(ctx, getUserID(ctx))
	if err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	response.Success(w, "authenticated", toUserResponse(user), s.logger)
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.AccessTokenDuration().Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Auth.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Auth.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
