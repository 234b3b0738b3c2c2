package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/response"
)

type leadService interface {
	Submit(ctx context.Context, actor *models.Session, req dto.LeadRequest) (*models.Lead, error)
	List(ctx context.Context, actor *models.Session) ([]models.Lead, error)
}

// LeadHandler exposes sales lead capture.
type LeadHandler struct {
	service leadService
}

// NewLeadHandler constructs the handler.
func NewLeadHandler(svc leadService) *LeadHandler {
	return &LeadHandler{service: svc}
}

// Create godoc
// @Summary Capture a sales lead
// @Tags Leads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.LeadRequest true "Lead"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lead payload"))
		return
	}
	lead, err := h.service.Submit(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lead)
}

// List godoc
// @Summary List sales leads
// @Tags Leads
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	leads, err := h.service.List(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leads, map[string]interface{}{"count": len(leads)})
}
