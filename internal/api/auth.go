package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/joestump/bytevault/internal/auth"
	"github.com/joestump/bytevault/internal/metrics"
	"github.com/joestump/bytevault/internal/store"
)

// authAPIHandler serves register, login, refresh and logout.
type authAPIHandler struct {
	users  *store.UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
	log    logrus.FieldLogger
}

// registerAuthRoutes registers the public auth routes on r. Logout needs a
// valid access token and is registered with the protected group instead.
func registerAuthRoutes(r chi.Router, h *authAPIHandler) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
}

// Register creates an account and returns the user with a fresh token pair.
// POST /api/auth/register
//
// @Summary      Register
// @Description  Creates an account and returns the user with an access and refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      CredentialsRequest  true  "Email and password"
// @Success      201   {object}  Response{data=AuthResponse}
// @Failure      400   {object}  Response
// @Failure      429   {object}  Response
// @Failure      500   {object}  Response
// @Router       /auth/register [post]
func (h *authAPIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := store.ValidateCredentials(req.Email, req.Password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "duplicate").Inc()
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, user, "register")
}

// Login checks credentials and returns the user with a fresh token pair.
// POST /api/auth/login
//
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      CredentialsRequest  true  "Email and password"
// @Success      200   {object}  Response{data=AuthResponse}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      429   {object}  Response
// @Router       /auth/login [post]
func (h *authAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeInternal(w, r, h.log, err)
		return
	}
	if user == nil || !h.hasher.Compare(req.Password, user.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user, "login")
}

// Refresh exchanges a refresh token for a new pair.
// POST /api/auth/refresh
//
// @Summary      Refresh tokens
// @Description  Exchanges a valid refresh token for a new token pair.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  true  "Refresh token"
// @Success      200   {object}  Response{data=AuthResponse}
// @Failure      401   {object}  Response
// @Router       /auth/refresh [post]
func (h *authAPIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	userID, err := h.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("refresh", "failure").Inc()
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if _, err := h.users.GetByID(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("refresh", "failure").Inc()
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}
		writeInternal(w, r, h.log, err)
		return
	}

	pair, err := h.tokens.GenerateTokens(userID)
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues("refresh", "success").Inc()
	writeData(w, http.StatusOK, AuthResponse{Tokens: pair})
}

// Logout acknowledges the logout; tokens are stateless and dropped client side.
// POST /api/auth/logout
//
// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Security     BearerToken
// @Router       /auth/logout [post]
func (h *authAPIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user := auth.UserFromContext(r.Context()); user != nil {
		h.log.WithField("user_id", user.ID).Debug("logout")
	}
	writeData(w, http.StatusOK, emptyObject)
}

func (h *authAPIHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, user *store.User, kind string) {
	pair, err := h.tokens.GenerateTokens(user.ID)
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues(kind, "success").Inc()
	writeData(w, status, AuthResponse{
		User:   &UserResponse{ID: user.ID, Email: user.Email},
		Tokens: pair,
	})
}
