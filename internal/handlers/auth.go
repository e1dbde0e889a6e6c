package handlers

import (
	"net/http"

	"github.com/krushiiq/apiserver/internal/auth"
	"github.com/krushiiq/apiserver/internal/services"
	"go.uber.org/zap"
)

// AuthHandler provides registration, login and the current-user lookup.
type AuthHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

func NewAuthHandler(users *services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

// RequireAuth enforces a valid bearer token and injects its user id into
// the request context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		userID, err := h.users.Authenticate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if parseRequest(w, r, fieldNames(registerBody), &req) == nil {
		return
	}

	userID, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, RegisterResponse{Status: "User registered", UserID: userID})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if parseRequest(w, r, fieldNames(loginBody), &req) == nil {
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, LoginResponse{Token: token})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}
