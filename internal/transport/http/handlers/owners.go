package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/usecase"
)

// OwnerHandler exposes the household member directory.
type OwnerHandler struct {
	directory  port.OwnerDirectory
	classifier *usecase.ClassifierService
}

// NewOwnerHandler constructs an OwnerHandler.
func NewOwnerHandler(directory port.OwnerDirectory, classifier *usecase.ClassifierService) *OwnerHandler {
	return &OwnerHandler{directory: directory, classifier: classifier}
}

// RegisterRoutes attaches directory endpoints to the group.
func (h *OwnerHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("/resolve", h.Resolve)
}

// List returns every household member profile.
func (h *OwnerHandler) List(c *gin.Context) {
	profiles, err := h.directory.Profiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list owners"))
		return
	}

	views := make([]OwnerProfileView, 0, len(profiles))
	for _, profile := range profiles {
		views = append(views, NewOwnerProfileView(profile))
	}
	c.JSON(http.StatusOK, views)
}

// Resolve attributes a username to a household member by email pattern.
func (h *OwnerHandler) Resolve(c *gin.Context) {
	var req ResolveOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid resolve payload"))
		return
	}

	owner, err := h.classifier.ResolveOwner(c.Request.Context(), req.Username)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOwnerUnresolved, Status: http.StatusNotFound, Message: "no matching owner"},
		}, http.StatusInternalServerError, "failed to resolve owner")
		return
	}

	c.JSON(http.StatusOK, ResolveOwnerResponse{Owner: owner.String()})
}
