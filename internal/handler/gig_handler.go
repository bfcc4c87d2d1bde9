package handler

import (
	"net/http"
	"strconv"

	appmw "github.com/gigflow/gigflow-backend/internal/middleware"
	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/notify"
	"github.com/gigflow/gigflow-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type GigHandler struct {
	svc      service.GigService
	notifier *notify.Notifier
}

func NewGigHandler(svc service.GigService, notifier *notify.Notifier) *GigHandler {
	return &GigHandler{svc: svc, notifier: notifier}
}

type CreateGigRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Budget         float64  `json:"budget"`
	BudgetType     string   `json:"budgetType"`
	SkillsRequired []string `json:"skillsRequired"`
	Deadline       string   `json:"deadline"`
}

func (h *GigHandler) Create(c echo.Context) error {
	var req CreateGigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	gig, err := h.svc.Create(c.Request().Context(), appmw.UserID(c), service.CreateGigInput{
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		BudgetType:     model.BudgetType(req.BudgetType),
		SkillsRequired: req.SkillsRequired,
		Deadline:       req.Deadline,
	})
	if err != nil {
		return respondError(c, err, false)
	}

	// Broadcasting the new posting is a boundary concern, kept out of
	// the registry's contract.
	h.notifier.GigPosted(gig)
	return c.JSON(http.StatusCreated, gig)
}

func (h *GigHandler) List(c echo.Context) error {
	gigs, err := h.svc.List(c.Request().Context(), c.QueryParam("search"), model.GigStatus(c.QueryParam("status")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch gigs"))
	}
	return c.JSON(http.StatusOK, gigs)
}

func (h *GigHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid gig id"))
	}
	gig, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(http.StatusOK, gig)
}

func (h *GigHandler) ListMine(c echo.Context) error {
	gigs, err := h.svc.ListByOwner(c.Request().Context(), appmw.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch gigs"))
	}
	return c.JSON(http.StatusOK, gigs)
}
