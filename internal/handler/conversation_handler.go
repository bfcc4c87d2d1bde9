package handler

import (
	"net/http"
	"strconv"

	appmw "github.com/gigflow/gigflow-backend/internal/middleware"
	"github.com/gigflow/gigflow-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ConversationHandler struct {
	svc service.ConversationService
}

func NewConversationHandler(svc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type MessageRequest struct {
	Text string `json:"text"`
}

func (h *ConversationHandler) GetOrCreateByBid(c echo.Context) error {
	bidID, err := strconv.ParseUint(c.Param("bidId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid bid id"))
	}
	cv, err := h.svc.GetOrCreateByBid(c.Request().Context(), bidID, appmw.UserID(c))
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(http.StatusOK, cv)
}

func (h *ConversationHandler) ListMine(c echo.Context) error {
	convs, err := h.svc.ListByUser(c.Request().Context(), appmw.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversations"))
	}
	return c.JSON(http.StatusOK, convs)
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	convID, err := strconv.ParseUint(c.Param("conversationId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	msgs, err := h.svc.ListMessages(c.Request().Context(), convID, appmw.UserID(c))
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	convID, err := strconv.ParseUint(c.Param("conversationId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.SendMessage(c.Request().Context(), convID, appmw.UserID(c), req.Text)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ConversationHandler) EditMessage(c echo.Context) error {
	msgID, err := strconv.ParseUint(c.Param("messageId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid message id"))
	}
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.EditMessage(c.Request().Context(), msgID, appmw.UserID(c), req.Text)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *ConversationHandler) DeleteMessage(c echo.Context) error {
	msgID, err := strconv.ParseUint(c.Param("messageId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid message id"))
	}
	convID, err := h.svc.DeleteMessage(c.Request().Context(), msgID, appmw.UserID(c))
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "message deleted",
		"conversationId": convID,
		"messageId":      msgID,
	})
}
