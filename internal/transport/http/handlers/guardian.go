package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/infra/security"
	"github.com/arlanov/hearthpass/internal/usecase"
)

// GuardianHandler exposes override token issuance and validation.
type GuardianHandler struct {
	guardian *usecase.GuardianService
}

// NewGuardianHandler constructs a GuardianHandler.
func NewGuardianHandler(guardian *usecase.GuardianService) *GuardianHandler {
	return &GuardianHandler{guardian: guardian}
}

// RegisterRoutes attaches override endpoints to the group.
func (h *GuardianHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/overrides", h.Issue)
	g.POST("/overrides/validate", h.Validate)
	g.DELETE("/overrides/:action_code", h.Clear)
}

var overrideErrorCases = []ErrorCase{
	{Err: usecase.ErrActionCodeRequired, Status: http.StatusBadRequest, Message: "action code is required"},
	{Err: usecase.ErrGuardianRequired, Status: http.StatusForbidden, Message: "guardian role required"},
	{Err: usecase.ErrGuardianPINMismatch, Status: http.StatusUnauthorized, Message: "guardian pin mismatch"},
	{Err: usecase.ErrOverrideNotFound, Status: http.StatusNotFound, Message: "override token not found"},
	{Err: usecase.ErrOverrideExpired, Status: http.StatusGone, Message: "override token expired"},
	{Err: usecase.ErrOverrideScopeMismatch, Status: http.StatusConflict, Message: "override token scope mismatch"},
}

// Issue mints an override token for an action code.
func (h *GuardianHandler) Issue(c *gin.Context) {
	var req IssueOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid override payload"))
		return
	}

	token, err := h.guardian.Issue(c.Request.Context(), usecase.IssueOverrideInput{
		ActionCode:  req.ActionCode,
		ReasonCode:  req.ReasonCode,
		ProfileHash: resolveProfileHash(req.ProfileHash, req.ProfileID),
		TTL:         time.Duration(req.TTLSeconds) * time.Second,
		PIN:         req.PIN,
		Actor: domain.SessionContext{
			ActorRole: domain.ParseOwnerRole(req.ActorRole),
		},
	})
	if err != nil {
		RespondWithMappedError(c, err, overrideErrorCases, http.StatusInternalServerError, "failed to issue override")
		return
	}

	c.JSON(http.StatusCreated, NewOverrideTokenView(*token))
}

// Validate checks the stored token against the caller's expected scope.
func (h *GuardianHandler) Validate(c *gin.Context) {
	var req ValidateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid validation payload"))
		return
	}

	token, err := h.guardian.Validate(c.Request.Context(), req.ActionCode, req.ReasonCode, resolveProfileHash(req.ProfileHash, req.ProfileID))
	if err != nil {
		RespondWithMappedError(c, err, overrideErrorCases, http.StatusInternalServerError, "failed to validate override")
		return
	}

	c.JSON(http.StatusOK, NewOverrideTokenView(*token))
}

// resolveProfileHash prefers an explicit hash, falling back to hashing the
// supplied profile identifier so both sides derive the same binding.
func resolveProfileHash(hash, profileID string) string {
	if hash != "" || profileID == "" {
		return hash
	}
	return security.HashKey(profileID)
}

// Clear revokes any outstanding approval for an action code.
func (h *GuardianHandler) Clear(c *gin.Context) {
	if err := h.guardian.Clear(c.Request.Context(), c.Param("action_code")); err != nil {
		RespondWithMappedError(c, err, overrideErrorCases, http.StatusInternalServerError, "failed to clear override")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "override cleared"})
}
