package handler

import (
	"net/http"
	"strconv"

	appmw "github.com/gigflow/gigflow-backend/internal/middleware"
	"github.com/gigflow/gigflow-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type BidHandler struct {
	svc service.BidService
}

func NewBidHandler(svc service.BidService) *BidHandler {
	return &BidHandler{svc: svc}
}

type CreateBidRequest struct {
	GigID   uint64  `json:"gigId"`
	Message string  `json:"message"`
	Price   float64 `json:"price"`
}

func (h *BidHandler) Create(c echo.Context) error {
	var req CreateBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.GigID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "gigId is required"))
	}
	bid, err := h.svc.Create(c.Request().Context(), req.GigID, appmw.UserID(c), req.Message, req.Price)
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(http.StatusCreated, bid)
}

func (h *BidHandler) ListByGig(c echo.Context) error {
	gigID, err := strconv.ParseUint(c.Param("gigId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid gig id"))
	}
	bids, err := h.svc.ListByGig(c.Request().Context(), gigID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch bids"))
	}
	return c.JSON(http.StatusOK, bids)
}

func (h *BidHandler) ListMine(c echo.Context) error {
	bids, err := h.svc.ListByFreelancer(c.Request().Context(), appmw.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch bids"))
	}
	return c.JSON(http.StatusOK, bids)
}

func (h *BidHandler) Hire(c echo.Context) error {
	bidID, err := strconv.ParseUint(c.Param("bidId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid bid id"))
	}
	bid, err := h.svc.Hire(c.Request().Context(), bidID, appmw.UserID(c))
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(http.StatusOK, bid)
}

func (h *BidHandler) Withdraw(c echo.Context) error {
	bidID, err := strconv.ParseUint(c.Param("bidId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid bid id"))
	}
	if err := h.svc.Withdraw(c.Request().Context(), bidID, appmw.UserID(c)); err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "bid withdrawn successfully"})
}
