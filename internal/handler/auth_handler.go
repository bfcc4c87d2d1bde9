package handler

import (
	"net/http"
	"time"

	"github.com/gigflow/gigflow-backend/internal/auth"
	appmw "github.com/gigflow/gigflow-backend/internal/middleware"
	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc    service.UserService
	secret string
}

func NewAuthHandler(svc service.UserService, secret string) *AuthHandler {
	return &AuthHandler{svc: svc, secret: secret}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, err := h.svc.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err, false)
	}
	token, err := auth.GenerateToken(u.ID, h.secret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to issue token"))
	}
	h.setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, SessionResponse{User: u, Token: token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "invalid email or password"))
	}
	token, err := auth.GenerateToken(u.ID, h.secret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to issue token"))
	}
	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, SessionResponse{User: u, Token: token})
}

func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.svc.Get(c.Request().Context(), appmw.UserID(c))
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

type UpdateProfileRequest struct {
	Name     *string  `json:"name"`
	Bio      *string  `json:"bio"`
	Skills   []string `json:"skills"`
	Location *string  `json:"location"`
	Website  *string  `json:"website"`
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, err := h.svc.UpdateProfile(c.Request().Context(), appmw.UserID(c), service.UpdateProfileInput{
		Name:     req.Name,
		Bio:      req.Bio,
		Skills:   req.Skills,
		Location: req.Location,
		Website:  req.Website,
	})
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
