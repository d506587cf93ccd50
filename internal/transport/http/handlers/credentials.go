package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/usecase"
)

// CredentialHandler exposes the credential ledger.
type CredentialHandler struct {
	ledger *usecase.LedgerService
}

// NewCredentialHandler constructs a CredentialHandler.
func NewCredentialHandler(ledger *usecase.LedgerService) *CredentialHandler {
	return &CredentialHandler{ledger: ledger}
}

// RegisterRoutes attaches ledger endpoints to the group.
func (h *CredentialHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("", h.Save)
	g.GET("", h.List)
	g.POST("/rotation/prepare", h.PrepareRotation)
	g.POST("/rotation/promote", h.PromoteRotation)
	g.POST("/lifecycle", h.SetLifecycle)
	g.POST("/breach-check", h.RecordBreachCheck)
	g.GET("/risk-summary", h.RiskSummary)
	g.POST("/previous-password", h.PreviousPassword)
}

var ledgerErrorCases = []ErrorCase{
	{Err: usecase.ErrOwnerUnresolved, Status: http.StatusBadRequest, Message: "owner is required"},
	{Err: usecase.ErrOwnerNotFound, Status: http.StatusNotFound, Message: "owner not found"},
	{Err: usecase.ErrRecordNotFound, Status: http.StatusNotFound, Message: "credential record not found"},
	{Err: usecase.ErrRecordLimitExceeded, Status: http.StatusConflict, Message: "record limit exceeded"},
	{Err: usecase.ErrNoPendingRotation, Status: http.StatusConflict, Message: "no pending rotation to promote"},
}

// Save records an observed current password, creating the record on first
// sight.
func (h *CredentialHandler) Save(c *gin.Context) {
	var req SaveCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid credential payload"))
		return
	}

	record, err := h.ledger.SaveCurrent(c.Request.Context(), usecase.SaveCredentialInput{
		Owner:    req.Owner,
		Service:  req.Service,
		Username: req.Username,
		URL:      req.URL,
		Category: req.Category,
		Password: req.Password,
		Notes:    req.Notes,
	})
	if err != nil {
		RespondWithMappedError(c, err, ledgerErrorCases, http.StatusInternalServerError, "failed to save credential")
		return
	}

	c.JSON(http.StatusOK, NewCredentialView(*record))
}

// List returns every record an owner holds.
func (h *CredentialHandler) List(c *gin.Context) {
	owner := domain.NormalizeOwnerID(c.Query("owner"))
	if owner == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "owner query parameter is required"))
		return
	}

	records, err := h.ledger.ListRecords(c.Request.Context(), owner)
	if err != nil {
		RespondWithMappedError(c, err, ledgerErrorCases, http.StatusInternalServerError, "failed to list credentials")
		return
	}

	views := make([]CredentialView, 0, len(records))
	for _, record := range records {
		views = append(views, NewCredentialView(record))
	}
	c.JSON(http.StatusOK, views)
}

// PrepareRotation queues a policy-compliant next password on the record.
func (h *CredentialHandler) PrepareRotation(c *gin.Context) {
	var req CredentialIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid rotation payload"))
		return
	}

	record, err := h.ledger.PrepareRotation(c.Request.Context(), domain.NormalizeOwnerID(req.Owner), req.Service, req.Username)
	if err != nil {
		RespondWithMappedError(c, err, ledgerErrorCases, http.StatusInternalServerError, "failed to prepare rotation")
		return
	}

	c.JSON(http.StatusOK, PrepareRotationResponse{
		Record:          NewCredentialView(*record),
		PendingPassword: record.PendingPassword,
	})
}

// PromoteRotation confirms the queued password was applied on the site.
func (h *CredentialHandler) PromoteRotation(c *gin.Context) {
	var req CredentialIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid rotation payload"))
		return
	}

	record, err := h.ledger.PromotePendingToCurrent(c.Request.Context(), domain.NormalizeOwnerID(req.Owner), req.Service, req.Username)
	if err != nil {
		RespondWithMappedError(c, err, ledgerErrorCases, http.StatusInternalServerError, "failed to promote rotation")
		return
	}

	c.JSON(http.StatusOK, NewCredentialView(*record))
}

// SetLifecycle flags how actively the household still uses the account.
func (h *CredentialHandler) SetLifecycle(c *gin.Context) {
	var req SetLifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid lifecycle payload"))
		return
	}

	record, err := h.ledger.SetLifecycle(c.Request.Context(), domain.NormalizeOwnerID(req.Owner), req.Service, req.Username, domain.ParseLifecycleState(req.State))
	if err != nil {
		RespondWithMappedError(c, err, ledgerErrorCases, http.StatusInternalServerError, "failed to set lifecycle")
		return
	}

	c.JSON(http.StatusOK, NewCredentialView(*record))
}

// RecordBreachCheck stores an external breach-check outcome on the record.
func (h *CredentialHandler) RecordBreachCheck(c *gin.Context) {
	var req BreachCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid breach check payload"))
		return
	}

	record, err := h.ledger.UpdateBreachStatus(c.Request.Context(), domain.NormalizeOwnerID(req.Owner), req.Service, req.Username, req.PwnedCount)
	if err != nil {
		RespondWithMappedError(c, err, ledgerErrorCases, http.StatusInternalServerError, "failed to record breach check")
		return
	}

	c.JSON(http.StatusOK, NewCredentialView(*record))
}

// RiskSummary aggregates an owner's ledger.
func (h *CredentialHandler) RiskSummary(c *gin.Context) {
	owner := domain.NormalizeOwnerID(c.Query("owner"))
	if owner == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "owner query parameter is required"))
		return
	}

	summary, err := h.ledger.SummarizeRisk(c.Request.Context(), owner)
	if err != nil {
		RespondWithMappedError(c, err, ledgerErrorCases, http.StatusInternalServerError, "failed to summarize risk")
		return
	}

	c.JSON(http.StatusOK, RiskSummaryResponse{
		Total:            summary.Total,
		Weak:             summary.Weak,
		Reused:           summary.Reused,
		Breached:         summary.Breached,
		PendingRotations: summary.PendingRotations,
	})
}

// PreviousPassword returns the latest history entry distinct from the
// current password, for site recovery flows.
func (h *CredentialHandler) PreviousPassword(c *gin.Context) {
	var req CredentialIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid credential payload"))
		return
	}

	previous, err := h.ledger.LatestDistinctPreviousPassword(c.Request.Context(), domain.NormalizeOwnerID(req.Owner), req.Service, req.Username)
	if err != nil {
		RespondWithMappedError(c, err, ledgerErrorCases, http.StatusInternalServerError, "failed to load previous password")
		return
	}

	c.JSON(http.StatusOK, PreviousPasswordResponse{Password: previous})
}
