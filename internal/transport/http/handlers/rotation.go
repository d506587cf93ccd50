package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/usecase"
)

// RotationHandler exposes the account action queue.
type RotationHandler struct {
	rotation *usecase.RotationService
}

// NewRotationHandler constructs a RotationHandler.
func NewRotationHandler(rotation *usecase.RotationService) *RotationHandler {
	return &RotationHandler{rotation: rotation}
}

// RegisterRoutes attaches queue endpoints to the group.
func (h *RotationHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/actions", h.Append)
	g.GET("/actions", h.List)
	g.POST("/actions/:id/complete", h.Complete)
}

var queueErrorCases = []ErrorCase{
	{Err: usecase.ErrOwnerUnresolved, Status: http.StatusBadRequest, Message: "owner is required"},
	{Err: usecase.ErrOwnerNotFound, Status: http.StatusNotFound, Message: "owner not found"},
	{Err: usecase.ErrUnknownActionType, Status: http.StatusBadRequest, Message: "unknown action type"},
	{Err: usecase.ErrDuplicatePendingAction, Status: http.StatusConflict, Message: "identical action already pending"},
	{Err: usecase.ErrQueueLimitExceeded, Status: http.StatusConflict, Message: "queue action limit exceeded"},
	{Err: usecase.ErrGuardianApprovalRequired, Status: http.StatusForbidden, Message: "guardian approval required"},
	{Err: usecase.ErrActionNotFound, Status: http.StatusNotFound, Message: "queue action not found"},
}

// Append queues one account action.
func (h *RotationHandler) Append(c *gin.Context) {
	var req AppendActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid action payload"))
		return
	}

	action, err := h.rotation.AppendAction(c.Request.Context(), usecase.AppendActionInput{
		Owner:              req.Owner,
		Service:            req.Service,
		Username:           req.Username,
		Type:               req.Type,
		Detail:             req.Detail,
		OverrideActionCode: req.OverrideActionCode,
	})
	if err != nil {
		RespondWithMappedError(c, err, queueErrorCases, http.StatusInternalServerError, "failed to queue action")
		return
	}

	c.JSON(http.StatusCreated, NewActionView(*action, time.Now().UTC()))
}

// List returns the queue in priority order, optionally filtered by owner.
func (h *RotationHandler) List(c *gin.Context) {
	var (
		actions []domain.RotationAction
		err     error
	)

	if rawOwner := c.Query("owner"); rawOwner != "" {
		actions, err = h.rotation.ListOwnerQueue(c.Request.Context(), domain.NormalizeOwnerID(rawOwner))
	} else {
		actions, err = h.rotation.ListQueue(c.Request.Context())
	}
	if err != nil {
		RespondWithMappedError(c, err, queueErrorCases, http.StatusInternalServerError, "failed to list queue")
		return
	}

	now := time.Now().UTC()
	views := make([]ActionView, 0, len(actions))
	for _, action := range actions {
		views = append(views, NewActionView(action, now))
	}
	c.JSON(http.StatusOK, views)
}

// Complete finishes a queue action with a receipt.
func (h *RotationHandler) Complete(c *gin.Context) {
	actionID := c.Param("id")

	// The receipt body is optional; a missing one gets generated downstream.
	var req CompleteActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid completion payload"))
		return
	}

	action, err := h.rotation.CompleteAction(c.Request.Context(), actionID, req.ReceiptID)
	if err != nil {
		RespondWithMappedError(c, err, queueErrorCases, http.StatusInternalServerError, "failed to complete action")
		return
	}

	c.JSON(http.StatusOK, NewActionView(*action, time.Now().UTC()))
}
