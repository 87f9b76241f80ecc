package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mockprep/platform/internal/auth"
	"mockprep/platform/internal/middleware"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/utils"
)

const msgAdminOnly = "This account does not have admin access."

type AuthHandler struct {
	service       *auth.Service
	logger        *zap.Logger
	secureCookies bool
}

func NewAuthHandler(service *auth.Service, logger *zap.Logger, secureCookies bool) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{service: service, logger: logger, secureCookies: secureCookies}
}

func resultStatus(res auth.Result, failure int) int {
	switch {
	case res.Success:
		return http.StatusOK
	case res.Message == auth.MsgDatabaseDown, res.Message == auth.MsgAuthServiceDown:
		return http.StatusServiceUnavailable
	case res.Message == auth.MsgUserExists, res.Message == auth.MsgEmailInUse:
		return http.StatusConflict
	}
	return failure
}

func (h *AuthHandler) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SignUpRequest](r)

	res := h.service.SignUp(r.Context(), auth.SignUpParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	utils.JSON(w, resultStatus(res, http.StatusBadRequest), res)
}

func (h *AuthHandler) SignInHandler(w http.ResponseWriter, r *http.Request) {
	h.signIn(w, r, false)
}

// AdminSignInHandler is sign-in for the admin entry point. Non-admin accounts
// are refused and get no session.
func (h *AuthHandler) AdminSignInHandler(w http.ResponseWriter, r *http.Request) {
	h.signIn(w, r, true)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, adminOnly bool) {
	req := middleware.GetValidatedRequest[*models.SignInRequest](r)

	res, session := h.service.SignIn(r.Context(), auth.SignInParams{Email: req.Email, Password: req.Password})
	if !res.Success {
		utils.JSON(w, resultStatus(res, http.StatusUnauthorized), res)
		return
	}
	if adminOnly && res.Role != models.RoleAdmin {
		utils.JSON(w, http.StatusForbidden, auth.Result{Message: msgAdminOnly})
		return
	}

	auth.SetSessionCookie(w, session, h.secureCookies)
	utils.JSON(w, http.StatusOK, res)
}

func (h *AuthHandler) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookies)
	utils.JSON(w, http.StatusOK, models.Resp{Success: true})
}

// MeHandler returns the signed in user.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthenticated(w)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
