package handlers

import (
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// AuthHandler handles HTTP requests for account and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler with the provided service dependency.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST requests to create an account.
//
// Endpoint: POST /api/auth/register
// Request Body: RegisterRequest (name, email, password, confirmPassword)
// Response: 201 Created with the user
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the email is already registered
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		response.RespondServiceError(w, "failed to create account", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST requests to open a session.
//
// Endpoint: POST /api/auth/login
// Request Body: LoginRequest (email, password)
// Response: 200 OK with model.Session
// Error: 401 Unauthorized if the credentials do not match
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.authService.Login(req)
	if err != nil {
		response.RespondServiceError(w, "failed to sign in", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, session)
}

// Me returns the signed-in user.
//
// Endpoint: GET /api/auth/me
// Response: 200 OK with the user
// Error: 404 Not Found if the account was removed after the token was issued
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(userID)
	if err != nil {
		response.RespondServiceError(w, "failed to load account", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}
