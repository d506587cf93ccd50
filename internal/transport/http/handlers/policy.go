package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arlanov/hearthpass/internal/usecase"
)

// PolicyHandler exposes password-policy resolution and generation.
type PolicyHandler struct {
	policies *usecase.PolicyService
}

// NewPolicyHandler constructs a PolicyHandler.
func NewPolicyHandler(policies *usecase.PolicyService) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

// RegisterRoutes attaches policy endpoints to the group.
func (h *PolicyHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/resolve", h.Resolve)
	g.POST("/generate", h.Generate)
	g.POST("/assess", h.Assess)
}

// Resolve returns the effective policy for a site.
func (h *PolicyHandler) Resolve(c *gin.Context) {
	var req PolicyResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid policy resolve payload"))
		return
	}

	spec := h.policies.ResolvePolicy(req.Service, req.URL, req.Category)
	c.JSON(http.StatusOK, NewPolicyView(spec))
}

// Generate produces a password satisfying the site's policy.
func (h *PolicyHandler) Generate(c *gin.Context) {
	var req PolicyResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid generate payload"))
		return
	}

	candidate, spec, err := h.policies.GeneratePassword(req.Service, req.URL, req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to generate password"))
		return
	}

	c.JSON(http.StatusOK, GeneratePasswordResponse{
		Password: candidate,
		Policy:   NewPolicyView(spec),
	})
}

// Assess reports whether a candidate password falls below the household
// baseline.
func (h *PolicyHandler) Assess(c *gin.Context) {
	var req AssessPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid assess payload"))
		return
	}

	c.JSON(http.StatusOK, AssessPasswordResponse{
		Weak: h.policies.AssessStrength(req.Password, req.Inputs...),
	})
}
